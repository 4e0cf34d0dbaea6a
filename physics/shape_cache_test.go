package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs/component"
	"github.com/milk9111/rigidsync/physics/backend"
	"github.com/milk9111/rigidsync/physics/simplesim"
)

func TestShapeCacheSharesShapes(t *testing.T) {
	c := NewShapeCache(simplesim.New(), false)

	a := c.GetOrCreate(component.ShapeBox, mgl64.Vec3{1, 2, 3})
	b := c.GetOrCreate(component.ShapeBox, mgl64.Vec3{1, 2, 3})
	if a != b {
		t.Fatalf("expected equal kind and size to share a shape")
	}

	other := c.GetOrCreate(component.ShapeBox, mgl64.Vec3{1, 2, 3.0001})
	if other == a {
		t.Fatalf("expected distinct sizes not to alias")
	}
	sphere := c.GetOrCreate(component.ShapeSphere, mgl64.Vec3{1, 2, 3})
	if sphere == a {
		t.Fatalf("expected distinct kinds not to alias")
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 cached shapes, got %d", c.Len())
	}
}

func TestShapeCacheSphereUsesSmallestAxis(t *testing.T) {
	c := NewShapeCache(simplesim.New(), false)
	s := c.GetOrCreate(component.ShapeSphere, mgl64.Vec3{4, 6, 2})
	if got := s.Desc().Radius; got != 1 {
		t.Fatalf("expected radius from smallest axis (1), got %v", got)
	}
}

func TestShapeCacheFactories(t *testing.T) {
	tests := []struct {
		name string
		kind component.ShapeKind
		size mgl64.Vec3
		want backend.ShapeDesc
	}{
		{
			name: "box",
			kind: component.ShapeBox,
			size: mgl64.Vec3{2, 4, 6},
			want: backend.ShapeDesc{Primitive: backend.PrimitiveBox, HalfExtents: mgl64.Vec3{1, 2, 3}},
		},
		{
			name: "capsule",
			kind: component.ShapeCapsule,
			size: mgl64.Vec3{2, 5, 4},
			want: backend.ShapeDesc{Primitive: backend.PrimitiveCapsule, Radius: 1, Height: 5},
		},
		{
			name: "cone",
			kind: component.ShapeCone,
			size: mgl64.Vec3{6, 3, 2},
			want: backend.ShapeDesc{Primitive: backend.PrimitiveCone, Radius: 1, Height: 3},
		},
		{
			name: "cylinder",
			kind: component.ShapeCylinder,
			size: mgl64.Vec3{4, 1, 4},
			want: backend.ShapeDesc{Primitive: backend.PrimitiveCylinder, Radius: 2, Height: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewShapeCache(simplesim.New(), false)
			s := c.GetOrCreate(tt.kind, tt.size)
			if got := s.Desc(); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
			if got := s.LocalScaling(); got != (mgl64.Vec3{1, 1, 1}) {
				t.Fatalf("expected identity scaling, got %v", got)
			}
		})
	}
}

func TestShapeCacheUnknownKind(t *testing.T) {
	c := NewShapeCache(simplesim.New(), false)
	s := c.GetOrCreate(component.ShapeKind(42), mgl64.Vec3{2, 2, 2})
	if s.Desc().Primitive != backend.PrimitiveBox {
		t.Fatalf("expected box fallback, got %v", s.Desc().Primitive)
	}
	if box := c.GetOrCreate(component.ShapeBox, mgl64.Vec3{2, 2, 2}); box != s {
		t.Fatalf("expected fallback to share the box entry")
	}

	strict := NewShapeCache(simplesim.New(), true)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown kind in strict mode")
		}
	}()
	strict.GetOrCreate(component.ShapeKind(42), mgl64.Vec3{2, 2, 2})
}

func TestShapeCacheInvalidSizePanics(t *testing.T) {
	c := NewShapeCache(simplesim.New(), false)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for negative size")
		}
	}()
	c.GetOrCreate(component.ShapeBox, mgl64.Vec3{-1, 1, 1})
}

func TestShapeCacheKeysSorted(t *testing.T) {
	c := NewShapeCache(simplesim.New(), false)
	c.GetOrCreate(component.ShapeSphere, mgl64.Vec3{1, 1, 1})
	c.GetOrCreate(component.ShapeBox, mgl64.Vec3{2, 1, 1})
	c.GetOrCreate(component.ShapeBox, mgl64.Vec3{1, 3, 1})
	c.GetOrCreate(component.ShapeBox, mgl64.Vec3{1, 2, 5})

	want := []ShapeKey{
		{Kind: component.ShapeBox, Size: mgl64.Vec3{1, 2, 5}},
		{Kind: component.ShapeBox, Size: mgl64.Vec3{1, 3, 1}},
		{Kind: component.ShapeBox, Size: mgl64.Vec3{2, 1, 1}},
		{Kind: component.ShapeSphere, Size: mgl64.Vec3{1, 1, 1}},
	}
	got := c.Keys()
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("key %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

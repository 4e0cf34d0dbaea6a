package physics

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs/component"
	"github.com/milk9111/rigidsync/physics/backend"
)

// ShapeKey identifies a cached shape.
type ShapeKey struct {
	Kind component.ShapeKind
	Size mgl64.Vec3
}

func (a ShapeKey) less(b ShapeKey) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	for i := 0; i < 3; i++ {
		if a.Size[i] != b.Size[i] {
			return a.Size[i] < b.Size[i]
		}
	}
	return false
}

type shapeFactory func(size mgl64.Vec3) backend.ShapeDesc

var shapeFactories = map[component.ShapeKind]shapeFactory{
	component.ShapeBox: func(size mgl64.Vec3) backend.ShapeDesc {
		return backend.ShapeDesc{Primitive: backend.PrimitiveBox, HalfExtents: size.Mul(0.5)}
	},
	component.ShapeCapsule: func(size mgl64.Vec3) backend.ShapeDesc {
		return backend.ShapeDesc{Primitive: backend.PrimitiveCapsule, Radius: math.Min(size.X(), size.Z()) / 2, Height: size.Y()}
	},
	component.ShapeCone: func(size mgl64.Vec3) backend.ShapeDesc {
		return backend.ShapeDesc{Primitive: backend.PrimitiveCone, Radius: math.Min(size.X(), size.Z()) / 2, Height: size.Y()}
	},
	component.ShapeCylinder: func(size mgl64.Vec3) backend.ShapeDesc {
		return backend.ShapeDesc{Primitive: backend.PrimitiveCylinder, Radius: math.Min(size.X(), size.Z()) / 2, Height: size.Y()}
	},
	component.ShapeSphere: func(size mgl64.Vec3) backend.ShapeDesc {
		return backend.ShapeDesc{Primitive: backend.PrimitiveSphere, Radius: math.Min(size.X(), math.Min(size.Y(), size.Z())) / 2}
	},
}

// ShapeCache shares backend shapes between every body that asks for the same
// kind and size. Entries live as long as the cache.
type ShapeCache struct {
	backend backend.Backend
	strict  bool
	shapes  map[ShapeKey]backend.Shape
}

func NewShapeCache(b backend.Backend, strict bool) *ShapeCache {
	return &ShapeCache{
		backend: b,
		strict:  strict,
		shapes:  make(map[ShapeKey]backend.Shape),
	}
}

// GetOrCreate returns the shared shape for kind and size. Unknown kinds panic
// in strict mode and are built as boxes otherwise.
func (c *ShapeCache) GetOrCreate(kind component.ShapeKind, size mgl64.Vec3) backend.Shape {
	factory, ok := shapeFactories[kind]
	if !ok {
		if c.strict {
			panic(fmt.Sprintf("physics: unknown collider shape %v", kind))
		}
		log.Printf("physics: unknown collider shape %v, using box", kind)
		kind = component.ShapeBox
		factory = shapeFactories[kind]
	}

	key := ShapeKey{Kind: kind, Size: size}
	if shape, ok := c.shapes[key]; ok {
		return shape
	}

	shape, err := c.backend.NewShape(factory(size))
	if err != nil {
		panic(fmt.Sprintf("physics: create %v shape of size %v: %v", kind, size, err))
	}
	shape.SetLocalScaling(mgl64.Vec3{1, 1, 1})
	c.shapes[key] = shape
	return shape
}

func (c *ShapeCache) Len() int {
	return len(c.shapes)
}

// Keys lists cached entries ordered by kind, then x, y and z.
func (c *ShapeCache) Keys() []ShapeKey {
	keys := make([]ShapeKey, 0, len(c.shapes))
	for k := range c.shapes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	return keys
}

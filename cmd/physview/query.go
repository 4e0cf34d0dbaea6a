package main

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/rigidsync/ecs"
)

// queryAt asks the registered QueryPosition service for the entities near pos.
func queryAt(w *ecs.World, pos mgl64.Vec3, radius float64) []ecs.Entity {
	e, ok := w.First(ecs.QueryPositionComponent.Kind().ID())
	if !ok {
		return nil
	}
	q, ok := ecs.Get(w, e, ecs.QueryPositionComponent.Kind())
	if !ok || q.Func == nil {
		return nil
	}
	return q.Func(pos, radius)
}

func formatQuery(pos mgl64.Vec3, radius float64, hits []ecs.Entity) string {
	ids := make([]string, len(hits))
	for i, e := range hits {
		ids[i] = e.String()
	}
	return fmt.Sprintf("query (%.2f, %.2f, %.2f) r=%.2f: %d hit(s) [%s]",
		pos.X(), pos.Y(), pos.Z(), radius, len(hits), strings.Join(ids, " "))
}

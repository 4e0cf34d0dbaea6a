package system

import (
	"github.com/milk9111/rigidsync/ecs"
)

// ExecuteSystem calls every ecs.Execute function once per update with a fixed
// delta.
type ExecuteSystem struct {
	Step float64
}

func NewExecuteSystem(step float64) *ExecuteSystem {
	return &ExecuteSystem{Step: step}
}

func (s *ExecuteSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	ecs.ForEach(w, ecs.ExecuteComponent.Kind(), func(_ ecs.Entity, ex *ecs.Execute) {
		if ex.Func != nil {
			ex.Func(s.Step)
		}
	})
}

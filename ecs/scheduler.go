package ecs

// System advances a world by one tick.
type System interface {
	Update(w *World)
}

// Scheduler runs its systems in registration order. A scheduler with a
// positive step ticks them once per step of accumulated frame time.
type Scheduler struct {
	systems  []System
	step     float64
	maxSteps int
	acc      float64
}

// NewScheduler returns a scheduler that ticks once per Update.
func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

// NewFixedScheduler returns a scheduler for Advance. maxSteps caps the ticks
// run for one frame; owed time beyond the cap is dropped.
func NewFixedScheduler(step float64, maxSteps int, systems ...System) *Scheduler {
	s := NewScheduler(systems...)
	s.step = step
	s.maxSteps = max(maxSteps, 1)
	return s
}

// Update runs every system once.
func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
}

// Advance adds frameDt to the accumulator and runs Update for each whole step
// it holds. It returns the number of ticks run.
func (s *Scheduler) Advance(w *World, frameDt float64) int {
	if s.step <= 0 {
		s.Update(w)
		return 1
	}
	if frameDt > 0 {
		s.acc += frameDt
	}
	n := 0
	for s.acc >= s.step {
		if n == s.maxSteps {
			s.acc = 0
			break
		}
		s.Update(w)
		s.acc -= s.step
		n++
	}
	return n
}

package engine

import "time"

// System is advanced once per tick.
type System interface {
	Update(dt time.Duration)
}

// SystemFunc adapts a function to System.
type SystemFunc func(dt time.Duration)

func (f SystemFunc) Update(dt time.Duration) { f(dt) }

type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs every system in registration order.
func (s *Scheduler) Update(dt time.Duration) {
	if s == nil {
		return
	}
	for _, system := range s.systems {
		system.Update(dt)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}

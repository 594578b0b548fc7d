package stage

import (
	"fmt"
	"slices"
)

// StageLabel names one phase of a Schedule.
type StageLabel string

// System is one unit of scheduled work. State is captured by closure.
type System func() error

// Schedule runs systems grouped into ordered stages. Within a stage, systems
// run in insertion order.
type Schedule struct {
	order   []StageLabel
	systems map[StageLabel][]System
}

func NewSchedule(stages ...StageLabel) *Schedule {
	return &Schedule{
		order:   slices.Clone(stages),
		systems: map[StageLabel][]System{},
	}
}

// AddSystem appends a system to a stage. Panics on an unknown stage, that is
// a wiring bug in host code, not a runtime condition.
func (s *Schedule) AddSystem(stage StageLabel, system System) {
	if !slices.Contains(s.order, stage) {
		panic(fmt.Sprintf("stage: unknown schedule stage %q", stage))
	}

	s.systems[stage] = append(s.systems[stage], system)
}

// InsertStageAfter adds a new stage right after an existing one, so host code
// can hook between the builtin stages.
func (s *Schedule) InsertStageAfter(existing, stage StageLabel) {
	idx := slices.Index(s.order, existing)
	if idx < 0 {
		panic(fmt.Sprintf("stage: unknown schedule stage %q", existing))
	}

	s.order = slices.Insert(s.order, idx+1, stage)
}

// InsertStageBefore adds a new stage right before an existing one.
func (s *Schedule) InsertStageBefore(existing, stage StageLabel) {
	idx := slices.Index(s.order, existing)
	if idx < 0 {
		panic(fmt.Sprintf("stage: unknown schedule stage %q", existing))
	}

	s.order = slices.Insert(s.order, idx, stage)
}

// Run executes one tick of all stages.
func (s *Schedule) Run() error {
	for _, stage := range s.order {
		for _, system := range s.systems[stage] {
			if err := system(); err != nil {
				return fmt.Errorf("stage %q: %w", stage, err)
			}
		}
	}

	return nil
}

package stage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRunsStagesInOrder(t *testing.T) {
	sched := NewSchedule("first", "second")

	var log []string
	record := func(name string) System {
		return func() error {
			log = append(log, name)
			return nil
		}
	}

	sched.AddSystem("second", record("second.0"))
	sched.AddSystem("first", record("first.0"))
	sched.AddSystem("first", record("first.1"))

	require.NoError(t, sched.Run())
	assert.Equal(t, []string{"first.0", "first.1", "second.0"}, log)
}

func TestScheduleInsertStage(t *testing.T) {
	sched := NewSchedule("a", "c")
	sched.InsertStageAfter("a", "b")
	sched.InsertStageBefore("a", "pre")

	var log []string
	for _, label := range []StageLabel{"pre", "a", "b", "c"} {
		name := string(label)
		sched.AddSystem(label, func() error {
			log = append(log, name)
			return nil
		})
	}

	require.NoError(t, sched.Run())
	assert.Equal(t, []string{"pre", "a", "b", "c"}, log)
}

func TestScheduleUnknownStagePanics(t *testing.T) {
	sched := NewSchedule("only")

	assert.Panics(t, func() {
		sched.AddSystem("nope", func() error { return nil })
	})

	assert.Panics(t, func() {
		sched.InsertStageAfter("nope", "other")
	})
}

func TestScheduleWrapsSystemErrors(t *testing.T) {
	sched := NewSchedule("boom")

	fail := errors.New("it broke")
	sched.AddSystem("boom", func() error { return fail })

	err := sched.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, fail)
	assert.Contains(t, err.Error(), `stage "boom"`)
}

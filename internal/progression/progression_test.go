package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextTargetIncrease(t *testing.T) {
	t.Run("weighted work adds five percent rounded to a plate", func(t *testing.T) {
		got := NextTarget(
			Session{ActualReps: 12, TempoConsistency: 85},
			PlanItem{Enabled: true, TargetReps: 12, TargetWeight: 50, RestSeconds: 60},
		)
		assert.Equal(t, TypeIncrease, got.Type)
		assert.InDelta(t, 52.5, got.TargetWeight, 0.001)
		assert.Equal(t, 12, got.TargetReps)
		assert.Equal(t, 60, got.RestSeconds)
	})

	t.Run("bodyweight reps add one", func(t *testing.T) {
		got := NextTarget(
			Session{ActualReps: 15, TempoConsistency: 90},
			PlanItem{Enabled: true, TargetReps: 15},
		)
		assert.Equal(t, TypeIncrease, got.Type)
		assert.Equal(t, 16, got.TargetReps)
	})

	t.Run("timed holds grow ten percent", func(t *testing.T) {
		got := NextTarget(
			Session{ActualSeconds: 60, TempoConsistency: 80},
			PlanItem{Enabled: true, TargetSeconds: 60},
		)
		assert.Equal(t, TypeIncrease, got.Type)
		assert.Equal(t, 66, got.TargetSeconds)
	})

	t.Run("meeting the target with ragged tempo does not increase", func(t *testing.T) {
		got := NextTarget(
			Session{ActualReps: 12, TempoConsistency: 79},
			PlanItem{Enabled: true, TargetReps: 12, TargetWeight: 50},
		)
		assert.Equal(t, TypeUnchanged, got.Type)
		assert.InDelta(t, 50, got.TargetWeight, 0.001)
	})
}

func TestNextTargetHoldAndReduce(t *testing.T) {
	t.Run("just under eighty percent holds with extra rest", func(t *testing.T) {
		got := NextTarget(
			Session{ActualReps: 9, TempoConsistency: 85},
			PlanItem{Enabled: true, TargetReps: 12, TargetWeight: 50, RestSeconds: 60},
		)
		assert.Equal(t, TypeHold, got.Type)
		assert.Equal(t, 75, got.RestSeconds)
		assert.InDelta(t, 50, got.TargetWeight, 0.001)
		assert.Empty(t, got.Note)
	})

	t.Run("under sixty percent drops the load ten percent", func(t *testing.T) {
		got := NextTarget(
			Session{ActualReps: 6, TempoConsistency: 85},
			PlanItem{Enabled: true, TargetReps: 12, TargetWeight: 50, RestSeconds: 60},
		)
		assert.Equal(t, TypeReduce, got.Type)
		assert.InDelta(t, 45, got.TargetWeight, 0.001)
		assert.Equal(t, 75, got.RestSeconds)
	})

	t.Run("bodyweight reduce removes a rep but never below one", func(t *testing.T) {
		got := NextTarget(
			Session{ActualReps: 2, TempoConsistency: 85},
			PlanItem{Enabled: true, TargetReps: 10},
		)
		assert.Equal(t, TypeReduce, got.Type)
		assert.Equal(t, 9, got.TargetReps)

		got = NextTarget(
			Session{ActualReps: 0, TempoConsistency: 85},
			PlanItem{Enabled: true, TargetReps: 1},
		)
		assert.Equal(t, TypeReduce, got.Type)
		assert.Equal(t, 1, got.TargetReps)
	})

	t.Run("sloppy tempo earns a form cue", func(t *testing.T) {
		got := NextTarget(
			Session{ActualReps: 8, TempoConsistency: 55},
			PlanItem{Enabled: true, TargetReps: 12, RestSeconds: 45},
		)
		assert.Equal(t, TypeHold, got.Type)
		assert.NotEmpty(t, got.Note)
	})
}

func TestNextTargetPassthrough(t *testing.T) {
	t.Run("disabled items are untouched", func(t *testing.T) {
		item := PlanItem{Enabled: false, TargetReps: 12, TargetWeight: 50, RestSeconds: 60}
		got := NextTarget(Session{ActualReps: 12, TempoConsistency: 100}, item)
		assert.Equal(t, TypeUnchanged, got.Type)
		assert.Equal(t, item.TargetReps, got.TargetReps)
		assert.InDelta(t, item.TargetWeight, got.TargetWeight, 0.001)
	})

	t.Run("no volume target means nothing to judge", func(t *testing.T) {
		got := NextTarget(Session{TempoConsistency: 100}, PlanItem{Enabled: true})
		assert.Equal(t, TypeUnchanged, got.Type)
	})

	t.Run("inside the comfortable band nothing moves", func(t *testing.T) {
		got := NextTarget(
			Session{ActualReps: 10, TempoConsistency: 85},
			PlanItem{Enabled: true, TargetReps: 12, RestSeconds: 60},
		)
		assert.Equal(t, TypeUnchanged, got.Type)
		assert.Equal(t, 60, got.RestSeconds)
	})
}

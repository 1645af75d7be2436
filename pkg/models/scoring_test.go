package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectiveWeightsSumToOne(t *testing.T) {
	for objective, w := range ObjectiveWeights {
		sum := w.Lead + w.Cost + w.Risk + w.Lane
		assert.InDelta(t, 1.0, sum, 0.0001, "objective %s", objective)
	}
}

func TestWeightsForUnknownObjectiveFallsBack(t *testing.T) {
	assert.Equal(t, ObjectiveWeights[ObjectiveBalanced], WeightsFor("make-it-fast"))
}

func TestQualifiedLevels(t *testing.T) {
	assert.True(t, QualificationFull.Qualified())
	assert.True(t, QualificationConditional.Qualified())
	assert.False(t, QualificationPending.Qualified())
	assert.False(t, QualificationDisqualified.Qualified())
}

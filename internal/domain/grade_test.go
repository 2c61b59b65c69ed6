package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrade(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{
		"INCORRECT", "CORRECT_WITH_HESITATION", "CORRECT_PERFECT_RECALL",
	} {
		grade, err := ParseGrade(valid)
		require.NoError(t, err, "grade %q should parse", valid)
		assert.Equal(t, Grade(valid), grade)
	}

	for _, invalid := range []string{"", "incorrect", "GOOD", "5"} {
		_, err := ParseGrade(invalid)
		assert.ErrorIs(t, err, ErrInvalidGrade, "grade %q should be rejected", invalid)
	}
}

func TestGradeCorrect(t *testing.T) {
	t.Parallel()

	assert.False(t, GradeIncorrect.Correct())
	assert.True(t, GradeCorrectWithHesitation.Correct())
	assert.True(t, GradeCorrectPerfectRecall.Correct())
}

func TestPrioritiesByRankOrder(t *testing.T) {
	t.Parallel()

	// Selection correctness depends on this exact order.
	assert.Equal(t, []Priority{PriorityHigh, PriorityMedium, PriorityLow}, PrioritiesByRank)
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	priority, err := ParsePriority("HIGH")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, priority)

	_, err = ParsePriority("URGENT")
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

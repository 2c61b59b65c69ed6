package sm2

import (
	"math"
	"time"

	"github.com/rowanfell/mnemo-api/internal/domain"
)

// qualityScore maps a grade onto the SM-2 quality scale. Only three points
// of the 0-5 scale are reachable; the gap between 0 and 4 is what makes a
// failed recall hit easiness so much harder than a hesitant one.
func qualityScore(grade domain.Grade) float64 {
	switch grade {
	case domain.GradeIncorrect:
		return 0
	case domain.GradeCorrectWithHesitation:
		return 4
	case domain.GradeCorrectPerfectRecall:
		return 5
	default:
		return 0
	}
}

// calculateNewEasiness applies the SM-2 easiness update for the given
// grade and clamps the result to the configured floor.
//
// The formula is evaluated for every grade, including INCORRECT (quality
// 0), where it lands as a penalty on top of the interval reset. That
// compounding is deliberate and must not be smoothed out.
func calculateNewEasiness(current float64, grade domain.Grade, params *Params) float64 {
	q := qualityScore(grade)
	next := current + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if next < params.MinEasiness {
		next = params.MinEasiness
	}

	return next
}

// calculateNewInterval determines the next interval in days.
//
// A failed recall falls back to the first interval regardless of history.
// Otherwise the interval follows the repetition tiering: the first correct
// repetition earns FirstInterval, the second SecondInterval, and from the
// third on the previous interval is multiplied by the easiness factor that
// was in effect going into this review and rounded to the nearest day.
// The result never drops below one day.
func calculateNewInterval(
	currentInterval int,
	repetitionCount int,
	easiness float64,
	grade domain.Grade,
	params *Params,
) int {
	if grade == domain.GradeIncorrect {
		return params.FirstInterval
	}

	var next int
	switch repetitionCount {
	case 1:
		next = params.FirstInterval
	case 2:
		next = params.SecondInterval
	default:
		next = int(math.Round(float64(currentInterval) * easiness))
	}

	if next < 1 {
		next = 1
	}

	return next
}

// NextState computes the schedule state that results from reviewing the
// given schedule with the given grade at the given time. It is pure: the
// input schedule is never mutated, and the only non-determinism is the
// caller-supplied clock reading written into LastSeenAt.
func NextState(
	schedule *domain.Schedule,
	grade domain.Grade,
	now time.Time,
	params *Params,
) *domain.Schedule {
	next := schedule.Clone()

	if grade == domain.GradeIncorrect {
		next.RepetitionCount = 0
	} else {
		next.RepetitionCount = schedule.RepetitionCount + 1
	}

	// The interval for the third and later repetitions grows by the
	// easiness carried over from the previous review; the easiness update
	// below only affects subsequent reviews.
	next.Interval = calculateNewInterval(
		schedule.Interval,
		next.RepetitionCount,
		schedule.Easiness,
		grade,
		params,
	)

	next.Easiness = calculateNewEasiness(schedule.Easiness, grade, params)

	seen := now
	next.LastSeenAt = &seen
	next.LastGrade = &grade
	next.UpdatedAt = now

	return next
}

package domain

// Grade represents the recall quality a user reports for a review.
// The three values are the only ones that ever cross the API boundary;
// the numeric quality scores used by the scheduling algorithm are an
// internal concern of the sm2 package.
type Grade string

// Possible review grades, in increasing order of recall quality.
const (
	GradeIncorrect             Grade = "INCORRECT"
	GradeCorrectWithHesitation Grade = "CORRECT_WITH_HESITATION"
	GradeCorrectPerfectRecall  Grade = "CORRECT_PERFECT_RECALL"
)

// Valid reports whether g is one of the three recognized grades.
func (g Grade) Valid() bool {
	switch g {
	case GradeIncorrect, GradeCorrectWithHesitation, GradeCorrectPerfectRecall:
		return true
	default:
		return false
	}
}

// Correct reports whether the grade counts as a successful recall.
func (g Grade) Correct() bool {
	return g == GradeCorrectWithHesitation || g == GradeCorrectPerfectRecall
}

// ParseGrade converts a wire string into a Grade.
// Returns ErrInvalidGrade for anything outside the closed set.
func ParseGrade(s string) (Grade, error) {
	g := Grade(s)
	if !g.Valid() {
		return "", ErrInvalidGrade
	}
	return g, nil
}

// Priority is the coarse importance bucket assigned to a card. Selection
// iterates tiers in HighPriority, MediumPriority, LowPriority order and a
// higher tier always wins over a lower one regardless of due counts.
type Priority string

// Priority tiers, highest first.
const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// PrioritiesByRank lists all tiers in selection order.
var PrioritiesByRank = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Valid reports whether p is one of the three recognized tiers.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// ParsePriority converts a wire string into a Priority.
// Returns ErrInvalidPriority for anything outside the closed set.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

// Direction identifies which side of a card a schedule presents as the
// prompt. Forward schedules always exist; reverse schedules exist only
// for cards whose deck is (or was at some point) bidirectional.
type Direction string

// Schedule directions.
const (
	DirectionForward Direction = "forward"
	DirectionReverse Direction = "reverse"
)

// Valid reports whether d is a recognized direction.
func (d Direction) Valid() bool {
	return d == DirectionForward || d == DirectionReverse
}

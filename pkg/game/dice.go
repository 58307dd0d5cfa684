package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// TotalWeight is the number of equally likely ordered rolls of two dice.
const TotalWeight = 36

// Outcome is an unordered roll of two dice, stored with Low <= High.
type Outcome struct {
	Low, High int
}

// NewOutcome builds an outcome from two die faces in any order.
func NewOutcome(d1, d2 int) (Outcome, error) {
	if d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		return Outcome{}, fmt.Errorf("dice values must be 1-6, got %d and %d", d1, d2)
	}
	if d1 > d2 {
		d1, d2 = d2, d1
	}
	return Outcome{Low: d1, High: d2}, nil
}

// IsDouble reports whether both dice show the same face.
func (o Outcome) IsDouble() bool {
	return o.Low == o.High
}

// Weight is the number of ordered rolls the outcome stands for: 2 for a
// regular roll, 1 for a double.
func (o Outcome) Weight() int {
	if o.IsDouble() {
		return 1
	}
	return 2
}

// Probability is Weight/TotalWeight.
func (o Outcome) Probability() float64 {
	return float64(o.Weight()) / TotalWeight
}

// Dice returns the die values to play: the two faces, or four copies of
// the face for a double.
func (o Outcome) Dice() []int {
	if o.IsDouble() {
		return []int{o.Low, o.Low, o.Low, o.Low}
	}
	return []int{o.Low, o.High}
}

func (o Outcome) String() string {
	return fmt.Sprintf("%d-%d", o.High, o.Low)
}

var (
	nonDoubles []Outcome
	doubles    []Outcome
	outcomes   []Outcome
)

func init() {
	for low := 1; low <= 6; low++ {
		doubles = append(doubles, Outcome{low, low})
		for high := low + 1; high <= 6; high++ {
			nonDoubles = append(nonDoubles, Outcome{low, high})
		}
	}
	outcomes = append(append(outcomes, nonDoubles...), doubles...)
}

// NonDoubleOutcomes returns the 15 regular outcomes. The slice is shared
// and must not be modified.
func NonDoubleOutcomes() []Outcome {
	return nonDoubles
}

// DoubleOutcomes returns the 6 doubles. The slice is shared and must not
// be modified.
func DoubleOutcomes() []Outcome {
	return doubles
}

// Outcomes returns all 21 outcomes, regular rolls first. The slice is
// shared and must not be modified.
func Outcomes() []Outcome {
	return outcomes
}

// Roll throws two dice.
func Roll(rng *rand.Rand) Outcome {
	o, _ := NewOutcome(rng.Intn(6)+1, rng.Intn(6)+1)
	return o
}

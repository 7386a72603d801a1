package engine

import (
	"time"

	"github.com/leaugueofchoding/wooriban-league-sub000/internal/battle"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/catalog"
	"github.com/leaugueofchoding/wooriban-league-sub000/internal/quiz"
)

// Timing holds the wall-clock budgets of the timed phases. Both clients and
// the server-side scanner compute deadlines from the same anchors in the
// record, so these are the only timing knobs.
type Timing struct {
	// QuizBudget is how long a quiz round stays open before chip damage.
	QuizBudget time.Duration
	// ActionBudget is the budget shown to clients for picking actions.
	ActionBudget time.Duration
	// ActionGrace is subtracted from ActionBudget before the timeout may
	// fire, reducing races against a legitimate last-moment choice.
	ActionGrace time.Duration
	// IntroDelay is the presentation hold between starting and the first quiz.
	IntroDelay time.Duration
	// NarrationHold is the pause after a resolution before the next round.
	NarrationHold time.Duration
}

// DefaultTiming returns the production phase budgets.
func DefaultTiming() Timing {
	return Timing{
		QuizBudget:    15 * time.Second,
		ActionBudget:  10 * time.Second,
		ActionGrace:   500 * time.Millisecond,
		IntroDelay:    1500 * time.Millisecond,
		NarrationHold: 2 * time.Second,
	}
}

// Rand is the randomness the engine consumes; *math/rand.Rand satisfies it
// and tests inject fixed rolls.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Env bundles the engine's read dependencies. Transition constructors close
// over it, keeping the (precondition, transform) pairs themselves pure.
type Env struct {
	Now     func() time.Time
	RNG     Rand
	Catalog *catalog.Catalog
	Quiz    *quiz.Bank
	Timing  Timing
}

// Transition is one step of the battle state machine expressed as a
// precondition over the current record plus a transform producing the next
// state. Every mutation goes through the transactional applier as such a
// pair; a failed precondition is the expected no-op under peer racing, not
// an error.
type Transition struct {
	Name         string
	Precondition func(r *battle.Record) bool
	Transform    func(r *battle.Record)
}

const (
	fleeSuccessChance = 0.3
	evadeNegateChance = 0.5

	focusBonus      = 0.5
	braceMitigation = 0.5

	// Quiz timeout chips 5% of each pet's own max HP.
	timeoutChipRatio = 0.05
)

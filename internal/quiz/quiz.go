package quiz

import "strings"

// Question is one entry of the flat quiz bank gating attacker turns.
type Question struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// placeholder keeps a battle playable when the configured bank is empty;
// leaving the record stuck in the quiz phase forever would be worse than a
// degraded round.
var placeholder = Question{Question: "1+1=?", Answer: "2"}

// Rand is the subset of math/rand the bank needs, injectable in tests.
type Rand interface {
	Intn(n int) int
}

// Bank is a read-only collection of questions sampled uniformly per round.
type Bank struct {
	questions []Question
}

// NewBank builds a bank from configured questions, dropping blanks.
func NewBank(questions []Question) *Bank {
	qs := make([]Question, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" {
			continue
		}
		qs = append(qs, q)
	}
	return &Bank{questions: qs}
}

// Len returns the number of usable questions.
func (b *Bank) Len() int { return len(b.questions) }

// Sample picks a question uniformly at random.
func (b *Bank) Sample(rng Rand) Question {
	if len(b.questions) == 0 {
		return placeholder
	}
	return b.questions[rng.Intn(len(b.questions))]
}

// Normalize prepares an answer for comparison: trimmed, lower-cased and
// inner whitespace collapsed.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}

// Matches compares a submitted answer against the expected one.
func Matches(submitted, expected string) bool {
	return Normalize(submitted) != "" && Normalize(submitted) == Normalize(expected)
}

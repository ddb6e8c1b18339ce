// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Mark / Marks: per-letter feedback for a guess and its digit encoding.
//   - State: the session state machine (in progress, won, lost).
//   - View, Outcome, Snapshot: values handed back to callers.

package game

import "strings"

// Mark is the evaluation of one letter of a guess.
type Mark uint8

const (
	MarkAbsent  Mark = iota // letter does not occur (or every occurrence is already used)
	MarkPresent             // letter occurs elsewhere in the secret
	MarkCorrect             // letter is in the right position
)

// Marks is the feedback for a whole guess, one Mark per letter.
type Marks []Mark

// String encodes marks as digits: "0" absent, "1" present, "2" correct.
func (m Marks) String() string {
	var b strings.Builder
	b.Grow(len(m))
	for _, x := range m {
		b.WriteByte('0' + byte(x))
	}
	return b.String()
}

// AllCorrect reports whether every mark is MarkCorrect.
func (m Marks) AllCorrect() bool {
	for _, x := range m {
		if x != MarkCorrect {
			return false
		}
	}
	return len(m) > 0
}

// State is the coarse session state.
type State int

const (
	StateInProgress State = iota
	StateWon
	StateLost
)

func (s State) String() string {
	switch s {
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "playing"
	}
}

// Terminal reports whether no more guesses are accepted.
func (s State) Terminal() bool { return s != StateInProgress }

// Rejection reasons for guesses that never reach the scorer.
const (
	ReasonNotInDictionary = "not in dictionary"
	ReasonWrongLength     = "wrong length"
)

// View is the public, secret-free description of a new game.
type View struct {
	TotalAttempts int `json:"totalAttempts"`
	WordLength    int `json:"wordLength"`
}

// Outcome is the result of one SubmitGuess call.
//
// A rejected outcome carries only Reason; the session is unchanged.
// Word is set only when the game was lost on this guess.
type Outcome struct {
	Rejected     bool
	Reason       string
	Marks        Marks
	AttemptsUsed int
	Finished     bool
	Won          bool
	Word         string
}

// Snapshot is a read-only copy of a session's counters.
type Snapshot struct {
	TotalAttempts int
	AttemptsUsed  int
	State         State
	Guesses       []string
	Word          string // empty while the game is in progress
}

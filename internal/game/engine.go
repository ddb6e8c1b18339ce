// internal/game/engine.go
//
// Core game engine for a single session.
// Responsibilities:
//   - Create games bound to a dictionary, with a random or pinned secret word.
//   - Validate guesses (length, dictionary membership) without spending attempts.
//   - Score guesses using the two-pass algorithm.
//   - Track state transitions: playing → won/lost.
//
// A Game serializes its own SubmitGuess calls, so concurrent requests for one
// session id cannot double-count an attempt. The dictionary is shared and
// read-only, so it needs no locking.

package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/robalobadob/wordle/server/internal/words"
)

// DefaultAttempts is the attempt budget used when Options leaves it unset.
const DefaultAttempts = 5

var (
	// ErrWordNotInDictionary is returned when a pinned secret is not a dictionary word.
	ErrWordNotInDictionary = errors.New("game: word not in dictionary")
	// ErrGameFinished is returned when guessing on a won or lost game.
	ErrGameFinished = errors.New("game: game finished")
	// ErrLengthMismatch is returned by Score for guesses and secrets of different lengths.
	ErrLengthMismatch = errors.New("game: guess and secret lengths differ")
)

// Options configures a new Game.
type Options struct {
	TotalAttempts int    // attempt budget; DefaultAttempts when <= 0
	Word          string // optional pinned secret (must be in the dictionary)
}

// Game holds the state of a single session.
type Game struct {
	mu      sync.Mutex
	dict    *words.Dictionary
	secret  string   // uppercase
	total   int      // attempt budget
	used    int      // attempts spent so far
	state   State
	guesses []string // accepted guesses, uppercase
}

// New constructs a game over dict.
// If opts.Word is empty, the secret is drawn with dict.RandomWord.
func New(dict *words.Dictionary, opts Options) (*Game, error) {
	total := opts.TotalAttempts
	if total <= 0 {
		total = DefaultAttempts
	}

	var secret string
	if opts.Word != "" {
		secret = strings.ToUpper(strings.TrimSpace(opts.Word))
		if !dict.HasWord(secret) {
			return nil, fmt.Errorf("%w: %q", ErrWordNotInDictionary, opts.Word)
		}
	} else {
		w, err := dict.RandomWord()
		if err != nil {
			return nil, err
		}
		secret = w
	}

	return &Game{
		dict:   dict,
		secret: secret,
		total:  total,
		state:  StateInProgress,
	}, nil
}

// Start returns the public view of the game. It never includes the secret.
func (g *Game) Start() View {
	return View{TotalAttempts: g.total, WordLength: g.dict.WordLength()}
}

// SubmitGuess validates and scores a guess, mutating the game state.
//
// Validation order:
//   - A finished game fails with ErrGameFinished and stays unchanged.
//   - A guess of the wrong length is rejected (ReasonWrongLength).
//   - A guess not in the dictionary is rejected (ReasonNotInDictionary).
//
// Rejections are normal outcomes, not errors, and do not spend an attempt.
//
// State transitions:
//   - guess == secret → won.
//   - otherwise, attempts used reaching the budget → lost, secret revealed.
func (g *Game) SubmitGuess(guess string) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Terminal() {
		return Outcome{}, ErrGameFinished
	}

	guess = strings.ToUpper(strings.TrimSpace(guess))
	if utf8.RuneCountInString(guess) != g.dict.WordLength() {
		return Outcome{Rejected: true, Reason: ReasonWrongLength, AttemptsUsed: g.used}, nil
	}
	if !g.dict.HasWord(guess) {
		return Outcome{Rejected: true, Reason: ReasonNotInDictionary, AttemptsUsed: g.used}, nil
	}

	marks, err := Score(guess, g.secret)
	if err != nil {
		return Outcome{}, err
	}
	g.used++
	g.guesses = append(g.guesses, guess)

	out := Outcome{Marks: marks, AttemptsUsed: g.used}
	switch {
	case marks.AllCorrect():
		g.state = StateWon
		out.Finished, out.Won = true, true
	case g.used >= g.total:
		g.state = StateLost
		out.Finished = true
		out.Word = g.secret
	}
	return out, nil
}

// State reports the current state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Snapshot returns a copy of the session counters. The secret is only
// included once the game is over.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Snapshot{
		TotalAttempts: g.total,
		AttemptsUsed:  g.used,
		State:         g.state,
		Guesses:       append([]string(nil), g.guesses...),
	}
	if g.state.Terminal() {
		s.Word = g.secret
	}
	return s
}

// Score compares guess against secret using the two-pass algorithm.
//
// Pass 1:
//   - Count every letter of the secret.
//   - Mark exact matches Correct and use up one count of that letter.
//
// Pass 2:
//   - For each remaining guess letter: if a count is left, mark Present and
//     use it up; otherwise mark Absent.
//
// Both inputs are expected in the same case. Unequal lengths are an error.
func Score(guess, secret string) (Marks, error) {
	g, s := []rune(guess), []rune(secret)
	if len(g) != len(s) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(g), len(s))
	}

	available := make(map[rune]int, len(s))
	for _, r := range s {
		available[r]++
	}

	marks := make(Marks, len(g))
	for i := range g {
		if g[i] == s[i] {
			marks[i] = MarkCorrect
			available[g[i]]--
		}
	}
	for i := range g {
		if marks[i] == MarkCorrect {
			continue
		}
		if available[g[i]] > 0 {
			marks[i] = MarkPresent
			available[g[i]]--
		}
	}
	return marks, nil
}

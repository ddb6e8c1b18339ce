// internal/httpserver/server.go
//
// HTTP server wiring for the game backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Game endpoints: POST /game/start, POST /game/submit.
//   - Info endpoints: /health, /dictionaries, /stats (see routes_info.go).
//   - Optional static assets for the browser client.
//
// Notes:
//   - Sessions live in a store.Registry owned by the caller.
//   - A session is removed from the registry as soon as it is won or lost,
//     and its result is appended to the history log when one is configured.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/server/internal/game"
	"github.com/robalobadob/wordle/server/internal/history"
	"github.com/robalobadob/wordle/server/internal/store"
	"github.com/robalobadob/wordle/server/internal/words"
)

// History is the subset of history.Store the server needs.
type History interface {
	Record(ctx context.Context, r history.Result) error
	Stats(ctx context.Context, dictionary string) (history.Stats, error)
}

// Options bundles the server's collaborators.
type Options struct {
	Sessions      *store.Registry
	Dictionaries  map[string]*words.Dictionary
	LoadErrors    words.LoadErrors
	DefaultDict   string
	TotalAttempts int
	Daily         words.Picker // picker for daily games; daily requests fail without one
	History       History      // optional
	ClientOrigin  string       // enables CORS when set
	AssetsDir     string       // serves static files at / when set
}

// Server bundles router, session registry, and loaded dictionaries.
type Server struct {
	r    *chi.Mux
	opts Options
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.TotalAttempts <= 0 {
		opts.TotalAttempts = game.DefaultAttempts
	}
	s := &Server{r: chi.NewRouter(), opts: opts}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	if opts.ClientOrigin != "" {
		s.r.Use(cors(opts.ClientOrigin))
	}

	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Post("/game/start", s.handleStart)
		r.Post("/game/submit", s.handleSubmit)
		s.mountInfo(r)

		if opts.AssetsDir == "" {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"service":"wordle","endpoints":["/health","POST /game/start","POST /game/submit","/dictionaries","/stats"]}`))
			})
		}
	})

	if opts.AssetsDir != "" {
		s.r.Handle("/*", http.FileServer(http.Dir(opts.AssetsDir)))
	} else {
		s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			writeError(w, http.StatusNotFound, "not_found")
		})
	}

	return s
}

// Router exposes the internal router (useful for tests and http.Server).
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// ------------------------------ GAME ---------------------------------------

// startReq/Res payloads for POST /game/start.
type startReq struct {
	DictName string `json:"dictName"` // optional; unknown names use the default dictionary
	Daily    bool   `json:"daily"`    // word of the day instead of a random word
}
type startRes struct {
	ID            string `json:"id"`
	TotalAttempts int    `json:"totalAttempts"`
	WordLength    int    `json:"wordLength"`
}

// handleStart creates a new session and returns its public view.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	name, dict := s.dictionary(req.DictName)
	if dict == nil {
		writeError(w, http.StatusServiceUnavailable, "no_dictionary")
		return
	}
	if req.Daily {
		if s.opts.Daily == nil {
			writeError(w, http.StatusNotImplemented, "daily_disabled")
			return
		}
		dict = dict.WithPicker(s.opts.Daily)
	}

	sess, err := s.opts.Sessions.Create(dict, game.Options{TotalAttempts: s.opts.TotalAttempts},
		store.Meta{Dictionary: name, Daily: req.Daily})
	if err != nil {
		log.Error().Err(err).Str("dict", name).Msg("create game")
		writeError(w, http.StatusInternalServerError, "create_failed")
		return
	}
	log.Info().Str("gameId", sess.ID).Str("dict", name).Bool("daily", req.Daily).Msg("game started")

	v := sess.Game.Start()
	writeJSON(w, http.StatusOK, startRes{ID: sess.ID, TotalAttempts: v.TotalAttempts, WordLength: v.WordLength})
}

// dictionary resolves a requested name, falling back to the default.
func (s *Server) dictionary(name string) (string, *words.Dictionary) {
	if d, ok := s.opts.Dictionaries[name]; ok && name != "" {
		return name, d
	}
	if d, ok := s.opts.Dictionaries[s.opts.DefaultDict]; ok {
		return s.opts.DefaultDict, d
	}
	return "", nil
}

// submitReq/Res payloads for POST /game/submit.
type submitReq struct {
	ID    string `json:"id"`
	Guess string `json:"guess"`
}
type submitRes struct {
	Result       string `json:"result"`                 // one digit per letter
	CurrentGuess int    `json:"currentGuess,omitempty"` // in progress only
	Finished     bool   `json:"finished,omitempty"`
	Won          *bool  `json:"won,omitempty"`  // set once finished
	Word         string `json:"word,omitempty"` // revealed on loss
}

// handleSubmit applies a guess to a session.
//
// Responses:
//   - 404 for unknown ids, 409 for guesses on a finished game.
//   - 200 {"error": reason} for rejected guesses (no attempt spent).
//   - 200 with the marks otherwise.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sess, err := s.opts.Sessions.Get(req.ID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	out, err := sess.Game.SubmitGuess(req.Guess)
	switch {
	case errors.Is(err, game.ErrGameFinished):
		writeError(w, http.StatusConflict, "game_finished")
		return
	case err != nil:
		log.Error().Err(err).Str("gameId", sess.ID).Msg("submit guess")
		writeError(w, http.StatusInternalServerError, "submit_failed")
		return
	}

	if out.Rejected {
		writeError(w, http.StatusOK, out.Reason)
		return
	}

	res := submitRes{Result: out.Marks.String()}
	if out.Finished {
		won := out.Won
		res.Finished, res.Won, res.Word = true, &won, out.Word
		s.finish(r.Context(), sess, out)
	} else {
		res.CurrentGuess = out.AttemptsUsed
	}
	writeJSON(w, http.StatusOK, res)
}

// finish evicts a finished session and records it (best effort).
func (s *Server) finish(ctx context.Context, sess *store.Session, out game.Outcome) {
	s.opts.Sessions.Remove(sess.ID)
	log.Info().Str("gameId", sess.ID).Bool("won", out.Won).Int("attempts", out.AttemptsUsed).Msg("game finished")

	if s.opts.History == nil {
		return
	}
	err := s.opts.History.Record(ctx, history.Result{
		GameID:        sess.ID,
		Dictionary:    sess.Meta.Dictionary,
		Daily:         sess.Meta.Daily,
		Attempts:      out.AttemptsUsed,
		TotalAttempts: sess.Game.Start().TotalAttempts,
		Won:           out.Won,
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("record history")
	}
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/robalobadob/wordle/server/internal/history"
	"github.com/robalobadob/wordle/server/internal/store"
	"github.com/robalobadob/wordle/server/internal/words"
)

type fakeHistory struct {
	mu      sync.Mutex
	results []history.Result
	err     error
}

func (f *fakeHistory) Record(_ context.Context, r history.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	return f.err
}

func (f *fakeHistory) Stats(_ context.Context, dict string) (history.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := history.Stats{Distribution: map[int]int{}}
	for _, r := range f.results {
		if dict != "" && r.Dictionary != dict {
			continue
		}
		st.Played++
		if r.Won {
			st.Wins++
			st.Distribution[r.Attempts]++
		}
	}
	return st, f.err
}

type fixture struct {
	srv  *Server
	reg  *store.Registry
	hist *fakeHistory
}

// newFixture serves "en-us-5" with the secret pinned to CRANE and a
// six-letter dictionary pinned to PLANET; session ids are "g1", "g2", ...
func newFixture(t *testing.T) *fixture {
	t.Helper()
	five, err := words.New([]string{"crane", "shale", "pride", "bride", "slate"})
	if err != nil {
		t.Fatal(err)
	}
	six, err := words.New([]string{"planet", "rocket"})
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	var mu sync.Mutex
	reg := store.NewRegistry(store.WithIDGenerator(store.IDFunc(func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return "g" + string(rune('0'+n))
	})))
	hist := &fakeHistory{}
	srv := New(Options{
		Sessions: reg,
		Dictionaries: map[string]*words.Dictionary{
			"en-us-5": five.WithPicker(words.Fixed(five, "crane")),
			"en-us-6": six.WithPicker(words.Fixed(six, "planet")),
		},
		LoadErrors:    words.LoadErrors{"broken": words.ErrInconsistentLength},
		DefaultDict:   "en-us-5",
		TotalAttempts: 5,
		Daily:         words.PickerFunc(func(int) int { return 3 }), // index 3 is BRIDE
		History:       hist,
	})
	return &fixture{srv: srv, reg: reg, hist: hist}
}

func (f *fixture) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: invalid JSON %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, out
}

func TestStartGame(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name       string
		body       string
		wantLength float64
	}{
		{"empty body uses default", "", 5},
		{"named dictionary", `{"dictName":"en-us-6"}`, 6},
		{"unknown dictionary falls back", `{"dictName":"xx-yy"}`, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, res := f.do(t, http.MethodPost, "/game/start", tc.body)
			if code != http.StatusOK {
				t.Fatalf("status = %d, body = %v", code, res)
			}
			if res["id"] == "" || res["totalAttempts"] != float64(5) || res["wordLength"] != tc.wantLength {
				t.Fatalf("res = %v", res)
			}
			if _, leaked := res["word"]; leaked {
				t.Fatal("start response leaked the secret")
			}
		})
	}

	code, _ := f.do(t, http.MethodPost, "/game/start", `{"dictName":`)
	if code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", code)
	}
}

func TestSubmit_WinFlow(t *testing.T) {
	f := newFixture(t)
	_, start := f.do(t, http.MethodPost, "/game/start", `{}`)
	id := start["id"].(string)

	code, res := f.do(t, http.MethodPost, "/game/submit", `{"id":"`+id+`","guess":"shale"}`)
	if code != http.StatusOK || res["result"] != "00202" || res["currentGuess"] != float64(1) {
		t.Fatalf("first guess: %d %v", code, res)
	}
	if _, ok := res["finished"]; ok {
		t.Fatalf("in-progress response has finished: %v", res)
	}

	code, res = f.do(t, http.MethodPost, "/game/submit", `{"id":"`+id+`","guess":"CRANE"}`)
	if code != http.StatusOK || res["result"] != "22222" || res["finished"] != true || res["won"] != true {
		t.Fatalf("winning guess: %d %v", code, res)
	}
	if _, ok := res["word"]; ok {
		t.Fatalf("win response should not carry word: %v", res)
	}

	// won sessions are evicted
	if f.reg.Len() != 0 {
		t.Fatalf("registry still holds %d sessions", f.reg.Len())
	}
	code, _ = f.do(t, http.MethodPost, "/game/submit", `{"id":"`+id+`","guess":"crane"}`)
	if code != http.StatusNotFound {
		t.Fatalf("guess after win status = %d, want 404", code)
	}

	if len(f.hist.results) != 1 {
		t.Fatalf("history has %d results", len(f.hist.results))
	}
	if r := f.hist.results[0]; !r.Won || r.Attempts != 2 || r.Dictionary != "en-us-5" || r.TotalAttempts != 5 {
		t.Fatalf("history result = %+v", r)
	}
}

func TestSubmit_LossRevealsWord(t *testing.T) {
	f := newFixture(t)
	_, start := f.do(t, http.MethodPost, "/game/start", ``)
	id := start["id"].(string)

	for i := 1; i <= 4; i++ {
		_, res := f.do(t, http.MethodPost, "/game/submit", `{"id":"`+id+`","guess":"slate"}`)
		if res["currentGuess"] != float64(i) || res["word"] != nil {
			t.Fatalf("guess %d: %v", i, res)
		}
	}
	_, res := f.do(t, http.MethodPost, "/game/submit", `{"id":"`+id+`","guess":"pride"}`)
	if res["finished"] != true || res["won"] != false || res["word"] != "CRANE" {
		t.Fatalf("losing guess: %v", res)
	}
	if len(f.hist.results) != 1 || f.hist.results[0].Won {
		t.Fatalf("history = %+v", f.hist.results)
	}
}

func TestSubmit_Rejections(t *testing.T) {
	f := newFixture(t)
	_, start := f.do(t, http.MethodPost, "/game/start", ``)
	id := start["id"].(string)

	tests := []struct {
		guess, want string
	}{
		{"zzzzz", "not in dictionary"},
		{"cra", "wrong length"},
	}
	for _, tc := range tests {
		code, res := f.do(t, http.MethodPost, "/game/submit", `{"id":"`+id+`","guess":"`+tc.guess+`"}`)
		if code != http.StatusOK || res["error"] != tc.want {
			t.Fatalf("guess %q: %d %v", tc.guess, code, res)
		}
	}

	_, res := f.do(t, http.MethodPost, "/game/submit", `{"id":"`+id+`","guess":"shale"}`)
	if res["currentGuess"] != float64(1) {
		t.Fatalf("rejections spent attempts: %v", res)
	}
}

func TestSubmit_Errors(t *testing.T) {
	f := newFixture(t)

	code, res := f.do(t, http.MethodPost, "/game/submit", `{"id":"nope","guess":"crane"}`)
	if code != http.StatusNotFound || res["error"] != "not_found" {
		t.Fatalf("unknown id: %d %v", code, res)
	}
	code, _ = f.do(t, http.MethodPost, "/game/submit", `not json`)
	if code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d", code)
	}
}

func TestSubmit_FinishedButStillRegistered(t *testing.T) {
	f := newFixture(t)
	_, start := f.do(t, http.MethodPost, "/game/start", ``)
	id := start["id"].(string)

	sess, err := f.reg.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sess.Game.SubmitGuess("crane"); err != nil {
		t.Fatal(err)
	}
	code, res := f.do(t, http.MethodPost, "/game/submit", `{"id":"`+id+`","guess":"crane"}`)
	if code != http.StatusConflict || res["error"] != "game_finished" {
		t.Fatalf("status = %d %v", code, res)
	}
}

func TestDailyGame(t *testing.T) {
	f := newFixture(t)
	_, start := f.do(t, http.MethodPost, "/game/start", `{"daily":true}`)
	id := start["id"].(string)

	_, res := f.do(t, http.MethodPost, "/game/submit", `{"id":"`+id+`","guess":"bride"}`)
	if res["won"] != true {
		t.Fatalf("daily word should be BRIDE: %v", res)
	}
	if !f.hist.results[0].Daily {
		t.Fatal("history should mark the game as daily")
	}

	// the regular picker is untouched
	_, start = f.do(t, http.MethodPost, "/game/start", `{}`)
	_, res = f.do(t, http.MethodPost, "/game/submit", `{"id":"`+start["id"].(string)+`","guess":"crane"}`)
	if res["won"] != true {
		t.Fatalf("regular game should still use CRANE: %v", res)
	}
}

func TestDictionariesAndStats(t *testing.T) {
	f := newFixture(t)

	code, res := f.do(t, http.MethodGet, "/dictionaries", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	list := res["dictionaries"].([]any)
	if len(list) != 2 || list[0].(map[string]any)["name"] != "en-us-5" || list[0].(map[string]any)["default"] != true {
		t.Fatalf("dictionaries = %v", list)
	}
	if failed := res["failed"].(map[string]any); failed["broken"] == nil {
		t.Fatalf("failed = %v", failed)
	}

	_, start := f.do(t, http.MethodPost, "/game/start", ``)
	f.do(t, http.MethodPost, "/game/submit", `{"id":"`+start["id"].(string)+`","guess":"crane"}`)

	code, res = f.do(t, http.MethodGet, "/stats?dictName=en-us-5", "")
	if code != http.StatusOK || res["played"] != float64(1) || res["wins"] != float64(1) {
		t.Fatalf("stats: %d %v", code, res)
	}

	f.hist.err = errors.New("boom")
	code, _ = f.do(t, http.MethodGet, "/stats", "")
	if code != http.StatusInternalServerError {
		t.Fatalf("stats error status = %d", code)
	}
}

func TestStatsDisabled(t *testing.T) {
	srv := New(Options{Sessions: store.NewRegistry()})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/game/start", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("start without dictionaries status = %d", rec.Code)
	}
}

func TestHealthAndNotFound(t *testing.T) {
	f := newFixture(t)
	if code, res := f.do(t, http.MethodGet, "/health", ""); code != http.StatusOK || res["ok"] != true {
		t.Fatalf("health: %d %v", code, res)
	}
	if code, res := f.do(t, http.MethodGet, "/nope", ""); code != http.StatusNotFound || res["error"] != "not_found" {
		t.Fatalf("404: %d %v", code, res)
	}
}

func TestStaticAssetsAndCORS(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>wordle</h1>"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := New(Options{Sessions: store.NewRegistry(), AssetsDir: dir, ClientOrigin: "http://localhost:5173"})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "wordle") {
		t.Fatalf("index: %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("index content type = %q", ct)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatal("missing CORS header")
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/game/start", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
}

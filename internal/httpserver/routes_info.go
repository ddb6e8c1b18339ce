// internal/httpserver/routes_info.go
//
// Read-only endpoints describing the server:
//   - GET /dictionaries → loaded dictionaries and the ones that failed to load
//   - GET /stats        → finished-game aggregates from the history log

package httpserver

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func (s *Server) mountInfo(r chi.Router) {
	r.Get("/dictionaries", s.handleDictionaries)
	r.Get("/stats", s.handleStats)
}

type dictInfo struct {
	Name       string `json:"name"`
	WordLength int    `json:"wordLength"`
	Words      int    `json:"words"`
	Default    bool   `json:"default,omitempty"`
}

type dictionariesRes struct {
	Dictionaries []dictInfo        `json:"dictionaries"`
	Failed       map[string]string `json:"failed,omitempty"`
}

func (s *Server) handleDictionaries(w http.ResponseWriter, r *http.Request) {
	res := dictionariesRes{Dictionaries: make([]dictInfo, 0, len(s.opts.Dictionaries))}
	for name, d := range s.opts.Dictionaries {
		res.Dictionaries = append(res.Dictionaries, dictInfo{
			Name:       name,
			WordLength: d.WordLength(),
			Words:      d.Len(),
			Default:    name == s.opts.DefaultDict,
		})
	}
	sort.Slice(res.Dictionaries, func(i, j int) bool { return res.Dictionaries[i].Name < res.Dictionaries[j].Name })

	if len(s.opts.LoadErrors) > 0 {
		res.Failed = make(map[string]string, len(s.opts.LoadErrors))
		for name, err := range s.opts.LoadErrors {
			res.Failed[name] = err.Error()
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// handleStats returns aggregates for ?dictName= (all dictionaries when empty).
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.opts.History == nil {
		writeError(w, http.StatusServiceUnavailable, "stats_disabled")
		return
	}
	dict := r.URL.Query().Get("dictName")
	st, err := s.opts.History.Stats(r.Context(), dict)
	if err != nil {
		log.Error().Err(err).Str("dict", dict).Msg("load stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

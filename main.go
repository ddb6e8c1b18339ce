package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/server/assets"
	"github.com/robalobadob/wordle/server/internal/config"
	"github.com/robalobadob/wordle/server/internal/daily"
	"github.com/robalobadob/wordle/server/internal/history"
	"github.com/robalobadob/wordle/server/internal/httpserver"
	"github.com/robalobadob/wordle/server/internal/store"
	"github.com/robalobadob/wordle/server/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	dicts, failed := loadDictionaries(cfg.DictDir)
	if len(dicts) == 0 {
		log.Fatal().Msg("no dictionaries loaded")
	}
	if _, ok := dicts[cfg.DefaultDict]; !ok {
		log.Warn().Str("dict", cfg.DefaultDict).Msg("default dictionary not loaded; unknown names will be refused")
	}

	var hist httpserver.History
	if cfg.DBPath != "" {
		db, err := history.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db", cfg.DBPath).Msg("open history database")
		}
		defer func(db *sql.DB) { _ = db.Close() }(db)
		hist = history.NewStore(db)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := store.NewRegistry(store.WithTTL(cfg.SessionTTL))
	go sessions.Run(ctx, cfg.SweepInterval)

	srv := httpserver.New(httpserver.Options{
		Sessions:      sessions,
		Dictionaries:  dicts,
		LoadErrors:    failed,
		DefaultDict:   cfg.DefaultDict,
		TotalAttempts: cfg.TotalAttempts,
		Daily:         daily.Picker{Salt: cfg.DailySalt},
		History:       hist,
		ClientOrigin:  cfg.ClientOrigin,
		AssetsDir:     cfg.AssetsDir,
	})

	httpSrv := &http.Server{Addr: cfg.Addr(), Handler: srv, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.Addr()).Int("attempts", cfg.TotalAttempts).Msg("starting server")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// loadDictionaries reads DICT_DIR, falling back to the embedded lists when the
// directory is missing or nothing in it loads.
func loadDictionaries(dir string) (map[string]*words.Dictionary, words.LoadErrors) {
	dicts, failed, err := words.LoadDir(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("dictionary dir unavailable, using embedded dictionaries")
	}
	if len(dicts) == 0 {
		dicts, failed, err = words.LoadFS(assets.Dictionaries())
		if err != nil {
			log.Fatal().Err(err).Msg("load embedded dictionaries")
		}
	}
	names := make([]string, 0, len(dicts))
	for n := range dicts {
		names = append(names, n)
	}
	log.Info().Strs("dictionaries", names).Int("failed", len(failed)).Msg("dictionaries loaded")
	return dicts, failed
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/tavern/internal/adapters/herostate"
	"github.com/okian/tavern/internal/adapters/http/api"
	"github.com/okian/tavern/internal/adapters/http/swagger"
	"github.com/okian/tavern/internal/adapters/market"
	"github.com/okian/tavern/internal/adapters/render"
	"github.com/okian/tavern/internal/adapters/repository"
	app "github.com/okian/tavern/internal/app"
	"github.com/okian/tavern/internal/config"
	"github.com/okian/tavern/internal/domain/dedupe"
	"github.com/okian/tavern/internal/domain/scoring"
	"github.com/okian/tavern/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// The console owns stdout, so logs go to stderr.
	if err := logger.Init(
		logger.WithWriter(os.Stderr),
		logger.WithFormat(cfg.LogFormat),
		logger.WithLevel(cfg.LogLevel),
	); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// A cycle never matches more than one provider page, so this cap does not
	// drop listings a reader could sort to the top.
	board := repository.NewBoard(repository.WithMaxListings(cfg.QueryLimit))
	svc, err := newService(cfg, board, log)
	if err != nil {
		log.Error(ctx, "invalid configuration", logger.Error(err))
		os.Exit(1)
	}

	var srv *http.Server
	if cfg.Addr != "" {
		srv = newHTTPServer(ctx, cfg, board)
		go func() {
			log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "HTTP server failed", logger.Error(err))
				stop()
			}
		}()
	}

	if err := svc.Run(ctx); err != nil {
		log.Error(ctx, "refresh loop failed", logger.Error(err))
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
		}
	}
	log.Info(context.Background(), "stopped")
}

// newProvider selects the listing provider named by cfg.Endpoint.
func newProvider(cfg *config.Config, log logger.Logger) market.Provider {
	opts := []market.Option{
		market.WithTimeout(cfg.HTTPTimeout()),
		market.WithRetry(cfg.RetryCount, time.Second),
	}
	if cfg.Endpoint == config.EndpointV5 {
		return market.NewV5(cfg.V5URL, append(opts, market.WithLogger(log.Named("market.v5")))...)
	}
	return market.NewV6(cfg.V6URL, append(opts, market.WithLogger(log.Named("market.v6")))...)
}

// newService wires the adapters and domain settings into the refresh service.
func newService(cfg *config.Config, board repository.Store, log logger.Logger) (*app.Service, error) {
	criteria, err := cfg.Criteria()
	if err != nil {
		return nil, err
	}
	field, asc, err := cfg.Sort()
	if err != nil {
		return nil, err
	}

	opts := []app.Option{
		app.WithLogger(log.Named("service")),
		app.WithProvider(newProvider(cfg, log)),
		app.WithBoard(board),
		app.WithScorer(scoring.NewScorer(scoring.WithRounding(cfg.RoundingMode()))),
		app.WithTracker(dedupe.NewTracker(dedupe.WithMaxSize(cfg.DedupeSize))),
		app.WithCriteria(criteria),
		app.WithQuery(cfg.Query()),
		app.WithSort(field, asc),
		app.WithDisplayLimit(cfg.DisplayLimit),
		app.WithMinProfessionPoints(cfg.MinProfessionPoints),
		app.WithIntervals(cfg.RefreshInterval(), cfg.QuestRefreshInterval(), cfg.RetryDelay()),
	}
	if cfg.HeroStateURL != "" {
		hs := herostate.New(cfg.HeroStateURL, cfg.HTTPTimeout(), cfg.RetryCount,
			herostate.WithLogger(log.Named(herostate.Source)),
			herostate.WithConcurrency(cfg.HeroConcurrency))
		opts = append(opts, app.WithHeroes(hs, cfg.HeroIDs))
	}
	if cfg.Console {
		opts = append(opts, app.WithDisplay(render.New(os.Stdout,
			render.WithColor(cfg.Color),
			render.WithClearScreen(cfg.ClearScreen),
		)))
	}
	return app.New(opts...), nil
}

// newHTTPServer exposes the board through the read-only API and its docs.
func newHTTPServer(ctx context.Context, cfg *config.Config, board api.Dependencies) *http.Server {
	field, asc, _ := cfg.Sort()
	apiServer := api.NewServer(board,
		api.WithMaxLimit(cfg.MaxBoardLimit),
		api.WithDefaultSort(field, asc),
	)
	mux := http.NewServeMux()
	apiServer.Register(mux)
	swagger.Register(ctx, mux)

	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/micahreeves/what-time/internal/catalog"
	"github.com/micahreeves/what-time/internal/clock"
	"github.com/micahreeves/what-time/internal/config"
	"github.com/micahreeves/what-time/internal/core"
	"github.com/micahreeves/what-time/internal/store"
	"github.com/micahreeves/what-time/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	st      store.Store
	router  *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

// openStore picks the configured backend. Both live under DataDir.
func openStore(ctx context.Context, cfg config.Config, clk clock.Clock) (store.Store, error) {
	switch cfg.StoreBackend {
	case "file":
		return store.OpenFile(cfg.DataDir, clk)
	case "sqlite":
		return store.OpenSQLite(ctx, cfg.DataDir, clk)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting what-time bot",
		zap.String("mode", a.cfg.RunMode),
		zap.String("backend", a.cfg.StoreBackend),
		zap.String("http", a.cfg.HTTPAddr),
	)

	clk := clock.System{}

	st, err := openStore(ctx, a.cfg, clk)
	if err != nil {
		// A corrupt store is fatal on purpose: serving writes against an
		// unloaded store would discard user data.
		a.log.Error("open store failed", zap.Error(err))
		return err
	}
	a.st = st
	a.log.Info("store ready", zap.String("backend", a.cfg.StoreBackend))

	cat, err := catalog.New()
	if err != nil {
		a.log.Error("catalog init failed", zap.Error(err))
		return err
	}

	svc := core.New(st, cat, clk, a.log)
	a.router = telegram.NewRouter(a.bot, a.log, svc)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			if a.st != nil {
				_ = a.st.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ZacxDev/nolan-sites/forms"
	"github.com/ZacxDev/nolan-sites/handlers"
	"github.com/ZacxDev/nolan-sites/i18n"
	"github.com/ZacxDev/nolan-sites/javascript"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		watch, _ := cmd.Flags().GetBool("watch")

		addr := cfg.Listen
		if port != "" {
			addr = ":" + port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		catalog, err := loadCatalog()
		if err != nil {
			return err
		}
		if watch {
			if cfg.MessagesDir == "" {
				logger.Warn("--watch needs messages_dir; messages will not reload")
			} else if err := catalog.Watch(ctx, cfg.MessagesDir, logger.Named("i18n")); err != nil {
				return err
			}
		}

		scripts, err := javascript.CompileJSTarget(cfg.Javascript, cfg.AssetsDir)
		if err != nil {
			logger.Warn("compile scripts", zap.Error(err))
		}

		store, err := forms.Open(cfg.FormsDB)
		if err != nil {
			return err
		}
		defer store.Close()

		capture := forms.NewCapture(store, nil, logger.Named("forms"))
		capture.SiteOf = func(r *http.Request) string {
			if info, ok := handlers.RequestInfoFrom(r.Context()); ok {
				return string(info.Site)
			}
			return ""
		}

		app, err := handlers.SetupRouter(handlers.Options{
			Config:   cfg,
			Messages: catalog,
			Forms:    capture,
			Scripts:  scripts,
			Logger:   logger.Named("http"),
		})
		if err != nil {
			return errors.Wrap(err, "setting up router")
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           app,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("starting server", zap.String("addr", addr), zap.Bool("watch", watch))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return errors.Wrap(err, "serve")
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "shutdown")
	},
}

func loadCatalog() (*i18n.Catalog, error) {
	locales, err := cfg.LocaleSet()
	if err != nil {
		return nil, err
	}
	if cfg.MessagesDir != "" {
		return i18n.LoadDir(cfg.MessagesDir, locales.Default())
	}
	return i18n.LoadEmbedded(locales.Default())
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "", "Port to run the server on (overrides listen)")
	serveCmd.Flags().Bool("watch", false, "Reload message catalogs when they change")
}

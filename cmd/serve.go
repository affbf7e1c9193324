package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gabinete-digital/handlers"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portal HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	gin.SetMode(a.cfg.GinMode)

	if err := a.authService.EnsureAdmin(cmd.Context(), a.cfg.Admin.Name, a.cfg.Admin.Email, a.cfg.Admin.Password); err != nil {
		a.logger.Error("failed to create admin account", zap.Error(err))
		return err
	}
	if a.cfg.Generator.APIKey == "" {
		a.logger.Warn("GROQ_API_KEY is not set; draft generation will be unavailable")
	}

	router := handlers.NewRouter(handlers.RouterDeps{
		Logger:          a.logger,
		Metrics:         a.metrics,
		Gatherer:        a.registry,
		AuthService:     a.authService,
		ProposalService: a.proposalService,
		IdeaService:     a.ideaService,
		BoardService:    a.boardService,
	})

	port := a.cfg.Port
	if servePort != "" {
		port = servePort
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	a.logger.Info("Server started",
		zap.String("port", port),
		zap.String("store", a.cfg.StoreDriver),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		a.logger.Error("Failed to start server", zap.Error(err))
		return err
	case <-quit:
	}
	a.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	a.logger.Info("Server gracefully stopped")
	return nil
}

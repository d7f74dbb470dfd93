package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course-portal/internal/api/router"
	"course-portal/internal/config"
	"course-portal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the registration API server",
	Long: `Start the registration API the portal commands talk to.

By default the server keeps its data in memory, seeded with the demo catalog
(students student001..student003, password pass123). Set backend.repository to
postgres to use the database created by "course-portal migrate up".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", "", "port for the server to listen on (default 3000)")
	serverCmd.Flags().Int("latency-ms", 0, "simulated network latency per API request")
	serverCmd.Flags().String("repository", "", "data backend: memory or postgres")
}

func startServer(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := config.Get()
	applyServerFlags(cmd, cfg)

	if cfg.App.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	deps, closeDeps, err := router.BuildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDeps(); err != nil {
			logger.Warn("Failed to release connections: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        router.NewRouter(deps),
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(map[string]interface{}{
			"port":       cfg.Server.Port,
			"repository": cfg.Backend.Repository,
			"latency_ms": cfg.Server.SimulatedLatencyMS,
		}).Info("Starting registration server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server exited")
	return nil
}

func applyServerFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if port, _ := flags.GetString("port"); port != "" {
		cfg.Server.Port = port
	}
	if flags.Changed("latency-ms") {
		cfg.Server.SimulatedLatencyMS, _ = flags.GetInt("latency-ms")
	}
	if repo, _ := flags.GetString("repository"); repo != "" {
		cfg.Backend.Repository = repo
	}
}

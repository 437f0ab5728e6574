package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kineticlabs/gracedown"
)

// Standalone test-run mode: a minimal listener on :8888 whose stop routine
// is the sole shutdown callback. Run it, then verify shutdown by hand:
//
//	kill -2 PID   (interrupt)
//	kill -15 PID  (terminate)
//
// The process exits within GRACEDOWN_SHUTDOWN_DEADLINE seconds either way.
var rootCmd = &cobra.Command{
	Use:   "gracedown",
	Short: "Minimal HTTP listener for manual signal-based shutdown verification",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Optional .env for local runs; absence is not an error.
		_ = godotenv.Load()
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.GET("/", func(c echo.Context) error {
			return c.String(http.StatusOK, "Hello, world")
		})

		coordinator := gracedown.NewCoordinator(gracedown.WithLogger(func(format string, args ...any) {
			slog.Warn(fmt.Sprintf(format, args...))
		}))

		coordinator.AtShutdown(func() {
			ctx, cancel := context.WithTimeout(context.Background(), gracedown.DeadlineFromEnv())
			defer cancel()
			if err := e.Shutdown(ctx); err != nil {
				slog.Error("failed to stop listener", "error", err)
			}
		})

		if err := coordinator.InstallHandlers(); err != nil {
			slog.Error("failed to install signal handlers", "error", err)
			os.Exit(1)
		}

		go func() {
			addr := fmt.Sprintf(":%d", viper.GetInt("port"))
			slog.Info("listening", "addr", addr, "pid", os.Getpid())
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("failed to start listener", "error", err)
				os.Exit(1)
			}
		}()

		// The coordinator exits the process; Done only unblocks main when
		// an alternative exit function is injected.
		<-coordinator.Done()
	},
}

func init() {
	viper.SetDefault("port", 8888)

	rootCmd.PersistentFlags().Int("port", 8888, "port of the test listener")
	if err := viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port")); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("gracedown")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}

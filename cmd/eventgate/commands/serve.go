package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eventgate/eventgate/internal/config"
	"github.com/eventgate/eventgate/internal/logging"
	"github.com/eventgate/eventgate/internal/server"
)

var (
	servePort     int
	serveHostname string
	serveCookie   string
	serveDir      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the eventgate HTTP server",
	Long: `Start the gateway that issues session cookies and routes posted JSON
events to the active session context.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on")
	serveCmd.Flags().StringVar(&serveHostname, "hostname", "", "Hostname to listen on")
	serveCmd.Flags().StringVar(&serveCookie, "cookie", "", "Session cookie name")
	serveCmd.Flags().StringVar(&serveDir, "directory", "", "Directory to load configuration from")
}

func runServe(cmd *cobra.Command, args []string) error {
	// A .env next to the binary is a convenience, not a requirement.
	_ = godotenv.Load()

	workDir := serveDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	appConfig, err := config.Load(workDir)
	if err != nil {
		return err
	}

	// Flags beat config files and environment.
	if servePort != 0 {
		appConfig.Port = servePort
	}
	if serveHostname != "" {
		appConfig.Hostname = serveHostname
	}
	if serveCookie != "" {
		appConfig.CookieName = serveCookie
	}
	if logLevel != "" {
		appConfig.LogLevel = logLevel
	}

	logging.Init(logging.Config{
		Level:  logging.ParseLevel(appConfig.LogLevel),
		Pretty: prettyLog,
	})

	serverConfig := server.DefaultConfig()
	serverConfig.Hostname = appConfig.Hostname
	serverConfig.Port = appConfig.Port
	serverConfig.CookieName = appConfig.CookieName
	serverConfig.Events = appConfig.Events

	srv := server.New(serverConfig)

	logging.Info().
		Str("version", Version).
		Str("addr", serverConfig.Hostname).
		Int("port", serverConfig.Port).
		Str("cookie", serverConfig.CookieName).
		Msg("starting eventgate")

	// Re-apply the log level when the config file changes.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	go func() {
		err := config.Watch(watchCtx, workDir, func(cfg *config.Config) {
			logging.SetLevel(logging.ParseLevel(cfg.LogLevel))
		})
		if err != nil && watchCtx.Err() == nil {
			logging.Warn().Err(err).Msg("config watcher stopped")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

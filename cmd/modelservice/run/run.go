package cmd

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/doda25-team16/model-service/internal/app"
	"github.com/doda25-team16/model-service/internal/config"
	"github.com/doda25-team16/model-service/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var Cmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve the model artifact and start the HTTP service",
	RunE:  runApp,
}

func init() {
	flags := Cmd.Flags()

	flags.Int("port", config.DefaultPort, "Port to run the server on")
	flags.String("host", config.DefaultHost, "Host to run the server on")
	flags.String("environment", config.DefaultEnvironment, "Environment configuration")

	viper.BindPFlag("port", flags.Lookup("port"))
	viper.BindPFlag("host", flags.Lookup("host"))
	viper.BindPFlag("environment", flags.Lookup("environment"))
}

func runApp(_ *cobra.Command, _ []string) error {
	// WithClassifier is the startup barrier: no listener exists until the
	// model artifact is resolved and loaded.
	application, err := app.NewApp(config.MustGetConfig(), app.WithClassifier())
	if err != nil {
		return err
	}
	defer application.Close()

	srv, err := server.NewServer(application.Config())
	if err != nil {
		return err
	}
	srv.SetupRoutes(application)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	signalc := make(chan os.Signal, 1)
	signal.Notify(signalc, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-signalc:
		application.Logger.Info("shutting down", zap.String("signal", sig.String()))
		return srv.Stop(application.Context())
	}
}

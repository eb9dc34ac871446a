package cmd

import (
	"fmt"
	"os"
	"strings"

	run "github.com/doda25-team16/model-service/cmd/modelservice/run"
	"github.com/doda25-team16/model-service/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "MODEL"

var Cmd = &cobra.Command{
	Use:   "model-service",
	Short: "SMS spam model service",
	Long:  "Serves a trained SMS spam classifier over HTTP, resolving the model artifact from a release bundle, a local cache or a built-in fallback release",

	// Runs before this command and any subcommands
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		viper.SetEnvPrefix(envPrefix)
		viper.SetEnvKeyReplacer(strings.NewReplacer(
			`-`, `_`,
			`.`, `_`,
		))
		viper.AutomaticEnv()

		if err := viper.BindPFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			return err
		}

		return config.LoadConfig()
	},
}

func Execute() {
	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pflags := Cmd.PersistentFlags()

	pflags.String("model-dir", config.DefaultModelDir, "Directory where model artifacts are cached")
	pflags.String("model-url", "", "URL of a model release bundle (tar.gz)")
	pflags.String("model-file", config.DefaultModelFile, "Name of the model file to resolve")
	pflags.String("env-file", "", "Path to an env file to load before reading the environment")

	viper.BindPFlag("model_dir", pflags.Lookup("model-dir"))
	viper.BindPFlag("model_url", pflags.Lookup("model-url"))
	viper.BindPFlag("model_file", pflags.Lookup("model-file"))
	viper.BindPFlag("env_file", pflags.Lookup("env-file"))

	// deployments configure these without any prefix
	viper.BindEnv("model_dir", "MODEL_DIR")
	viper.BindEnv("model_url", "MODEL_URL")
	viper.BindEnv("model_file", "MODEL_FILE")
	viper.BindEnv("port", "MODEL_PORT")
	viper.BindEnv("host", "MODEL_HOST")
	viper.BindEnv("environment", "ENVIRONMENT")

	Cmd.AddCommand(run.Cmd)
	Cmd.CompletionOptions.HiddenDefaultCmd = true
}

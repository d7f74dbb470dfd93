package cmd

import (
	"fmt"
	"os"
	"strings"

	"course-portal/internal/config"
	"course-portal/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "course-portal",
	Short: "Student course registration portal",
	Long: `A student-facing course registration portal.

The client commands sign a student in, show the current term's catalog with
prerequisite status, and register for courses. The server command runs the
registration API they talk to, backed by the demo catalog or PostgreSQL.

Example usage:
  course-portal server                  # Start the registration API on :3000
  course-portal login -u student001     # Sign in (prompts for the password)
  course-portal courses                 # Show the catalog for the current term
  course-portal register 3              # Register for Algorithms`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		if err := logger.InitWithConfig(level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
			logger.Init(verbose)
			logger.Warn("Failed to initialize logger with config, using fallback: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.course-portal.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.String("api-url", "", "base URL of the registration API (default http://localhost:3000/api)")
	flags.StringP("output", "o", "", "output format: table, json or yaml")

	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("client.base_url", flags.Lookup("api-url"))
	_ = viper.BindPFlag("client.output", flags.Lookup("output"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".course-portal")
	}

	viper.SetEnvPrefix("COURSE_PORTAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	config.Init()
}

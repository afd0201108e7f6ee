package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fincase/console-fin/internal/api"
)

var (
	cfgFile  string
	apiURL   string
	logLevel string
	timeout  time.Duration
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "console-fin",
	Short: "Terminal client for the financial-crime case service",
	Long: `Console-FIN is a terminal client for managing investigation cases and their
transactions against a remote case service.

Features:
- Case management TUI with list and detail views
- Transaction entry and server-side anomaly analysis
- Plain-text listing commands for limited terminals`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.console-fin.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://127.0.0.1:8000", "Base URL of the case service")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	// Bind flags to viper
	viper.BindPFlag("api.url", rootCmd.PersistentFlags().Lookup("api-url"))
	viper.BindPFlag("api.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A local .env may carry CONSOLE_FIN_API_URL and friends.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".console-fin" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".console-fin")
	}

	viper.SetEnvPrefix("CONSOLE_FIN")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// Set defaults
	viper.SetDefault("api.url", "http://127.0.0.1:8000")
	viper.SetDefault("api.timeout", "30s")
	viper.SetDefault("log.level", "info")
}

// Config represents the application configuration
type Config struct {
	API APIConfig `mapstructure:"api"`
	Log LogConfig `mapstructure:"log"`
}

type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// GetConfig returns the current configuration values
func GetConfig() Config {
	return Config{
		API: APIConfig{
			URL:     viper.GetString("api.url"),
			Timeout: viper.GetDuration("api.timeout"),
		},
		Log: LogConfig{
			Level: viper.GetString("log.level"),
		},
	}
}

// newLogger builds the process logger at the configured level.
func newLogger(config Config) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(config.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// newClient builds the API client from the current configuration.
func newClient(logger *logrus.Logger) (*api.Client, error) {
	config := GetConfig()
	client, err := api.NewClient(config.API.URL, config.API.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize API client: %w", err)
	}
	return client, nil
}

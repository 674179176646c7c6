package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string
var logger *zap.SugaredLogger
var logsDir string

var rootCmd = &cobra.Command{
	Use:   "webaudit",
	Short: "Single-page web audit: security findings, performance timing, and content analysis",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".webaudit")
			viper.SetConfigType("yaml")
		}
		_ = viper.BindEnv("browser.exec_path", "WEBAUDIT_BROWSER")

		_ = viper.ReadInConfig()
		logsDir = viper.GetString("logs_dir")
		if logsDir == "" {
			logsDir = "./logs"
		}
		if abs, err := filepath.Abs(logsDir); err == nil {
			logsDir = abs
		}

		// init logger; stderr only, stdout carries the event stream
		l, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %s", err.Error())
		}
		logger = l.Sugar()

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.webaudit.yaml)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"radionode/config"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "radionode",
		Short:         "Host tools for the radionode firmware",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "board configuration (JSON); reference board when empty")
	rootCmd.AddCommand(consoleCmd, simCmd)
}

// loadBoard returns the board selected by --config
func loadBoard() (*config.BoardConfig, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return config.LoadConfig(data)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

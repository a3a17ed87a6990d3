package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmunix/nbpod/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, path, err := config.Resolve(configPath)
		if err != nil {
			return err
		}
		if path == "" {
			fmt.Println("(built-in defaults)")
			return nil
		}
		fmt.Println(path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.Resolve(configPath)
		if err != nil {
			return err
		}
		return cfg.Encode(os.Stdout, path)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configShowCmd)
}

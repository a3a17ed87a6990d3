package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "nbpod",
	Short: "Turn web sources into notebook audio and publish it as podcast episodes",
	Long: `nbpod - notebook audio to podcast automation

nbpod drives a Chrome you already have running (with remote debugging
enabled) to build notebooks from source URLs, start their audio overview,
download the audio and publish it through the podcast console.

Start Chrome first, for example:
  ` + "google-chrome --remote-debugging-port=9222 --user-data-dir=./chrome-user-data",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nbpod %s\n", version)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("nbpod {{.Version}}\n")
}

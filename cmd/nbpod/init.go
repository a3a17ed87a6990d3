package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vmunix/nbpod/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInitCmd,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := config.DefaultPath()
	if len(args) == 1 {
		path = args[0]
	}

	err := config.WriteDefault(path, force)
	if errors.Is(err, config.ErrExists) {
		return fmt.Errorf("%w, use --force to overwrite", err)
	}
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

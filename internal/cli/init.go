package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/storekeeper/internal/config"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize storekeeper storage",
		Long: "Create the configuration and data directories, write a default config.yaml\n" +
			"if none exists, and create (or upgrade) the products table.",
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"config": config.FilePath(a.cfg.ConfigDir),
			"db":     a.cfg.DBPath(),
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Storekeeper initialized successfully")
	fmt.Fprintf(out, "config:   %s\n", config.FilePath(a.cfg.ConfigDir))
	fmt.Fprintf(out, "database: %s\n", a.cfg.DBPath())
	return nil
}

// Backup commands: export and import of the products table as JSONL.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every product to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.svc.Export(args[0])
			if err != nil {
				return storeError("export products", err)
			}
			return printCount(cmd, "Exported", n, args[0])
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add the products in a JSONL file",
		Long: "Import adds one product per line of the file. Imported products get new\n" +
			"ids and creation times. Every record is validated; one invalid record\n" +
			"aborts the whole import and nothing is written.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.svc.Import(args[0])
			if err != nil {
				return storeError("import products", err)
			}
			return printCount(cmd, "Imported", n, args[0])
		},
	}
}

func printCount(cmd *cobra.Command, verb string, n int, file string) error {
	if flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]any{"count": n, "file": file})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d products (%s)\n", verb, n, file)
	return nil
}

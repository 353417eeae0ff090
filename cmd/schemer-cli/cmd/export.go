package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"schemer/internal/application/commands"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the diagram as JSON or YAML",
	Long: `Write the stored diagram in its load/save shape.

Examples:
  schemer-cli export > scheme.json
  schemer-cli export --format yaml -o scheme.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("output")

		data, err := commands.NewExportCommand(GetRepo(), format).Execute(ctx)
		if err != nil {
			return err
		}
		if out == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		brand.Printf("Exported to %s\n", out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the diagram with a JSON or YAML document",
	Long: `Replace the stored diagram. The format follows the file extension
unless --format is given; stdin is read when no file is named.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		format, _ := cmd.Flags().GetString("format")

		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(args[0]), ".")
			}
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		result, err := commands.NewImportCommand(GetRepo(), data, format).Execute(ctx)
		if err != nil {
			return err
		}
		brand.Println(result.Message)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", commands.FormatJSON, "json or yaml")
	exportCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
	importCmd.Flags().StringP("format", "f", "", "json or yaml (default from the file extension)")

	rootCmd.AddCommand(exportCmd, importCmd)
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezbooks/ezb/internal/api"
	"github.com/ezbooks/ezb/internal/cli"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <output-file>",
		Short: "Export receipts for a date range",
		Long: `Export receipts to a CSV or PDF file.

The format is taken from the output file extension unless --format
is given.`,
		Args: cobra.ExactArgs(1),
	}
	resolveRange := rangeFlags(cmd)
	cmd.Flags().String("format", "", "export format (csv, pdf)")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		backend, err := initBackend()
		if err != nil {
			return err
		}

		r, err := resolveRange()
		if err != nil {
			return err
		}

		format, err := resolveFormat(c, args[0])
		if err != nil {
			return err
		}

		out, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer out.Close() //nolint:errcheck // close error surfaces via Sync

		n, err := backend.Export(c.Context(), r.Start, r.End, format, out)
		if err != nil {
			return fmt.Errorf("exporting receipts: %w", err)
		}
		if err := out.Sync(); err != nil {
			return fmt.Errorf("flushing output file: %w", err)
		}

		fmt.Println(cli.SuccessStyle.Render(
			fmt.Sprintf("Exported %s (%s, %d bytes)", args[0], format, n)))
		return nil
	}
	return cmd
}

func resolveFormat(cmd *cobra.Command, path string) (api.ExportFormat, error) {
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	switch format {
	case "csv":
		return api.ExportCSV, nil
	case "pdf":
		return api.ExportPDF, nil
	case "":
		return "", fmt.Errorf("cannot infer format from %q, pass --format", path)
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

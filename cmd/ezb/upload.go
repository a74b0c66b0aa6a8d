package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ezbooks/ezb/internal/cli"
	"github.com/ezbooks/ezb/internal/model"
	"github.com/ezbooks/ezb/internal/service"
)

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload receipt images",
		Long: `Upload one or more receipt images for parsing.

Files are sent one at a time so a bad file only fails itself; the
rest of the batch still goes through. Optional flags pre-fill fields
on every uploaded receipt.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runUpload,
	}

	cmd.Flags().String("vendor", "", "vendor ID to pre-fill")
	cmd.Flags().String("job", "", "job ID to pre-fill")
	cmd.Flags().String("category", "", "category name to pre-fill")
	cmd.Flags().String("card", "", "card ID to pre-fill")
	cmd.Flags().String("date", "", "receipt date to pre-fill")
	cmd.Flags().String("amount", "", "amount to pre-fill")
	cmd.Flags().String("tax", "", "tax amount to pre-fill")

	return cmd
}

func runUpload(cmd *cobra.Command, args []string) error {
	backend, err := initBackend()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	fields, err := uploadFieldsFromFlags(cmd)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionSetDescription("uploading"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	// One file at a time, in argument order. Failures are collected
	// and reported at the end instead of aborting the batch.
	type failure struct {
		name    string
		message string
	}
	var failures []failure

	for _, path := range args {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck // read-only handle

			_, err = backend.UploadReceipt(ctx, filepath.Base(path), f, fields)
			return err
		}()
		if err != nil {
			failures = append(failures, failure{name: filepath.Base(path), message: err.Error()})
		}

		_ = bar.Add(1)
	}
	_ = bar.Finish()

	succeeded := len(args) - len(failures)
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Uploaded %d of %d file(s)", succeeded, len(args))))

	if len(failures) > 0 {
		fmt.Println(cli.ErrorStyle.Render("Failed:"))
		for _, f := range failures {
			fmt.Printf("  %s: %s\n", f.name, f.message)
		}
		return fmt.Errorf("%d of %d uploads failed", len(failures), len(args))
	}
	return nil
}

func uploadFieldsFromFlags(cmd *cobra.Command) (service.UploadFields, error) {
	var fields service.UploadFields
	fields.VendorID, _ = cmd.Flags().GetString("vendor")
	fields.JobID, _ = cmd.Flags().GetString("job")
	fields.Category, _ = cmd.Flags().GetString("category")
	fields.CardID, _ = cmd.Flags().GetString("card")
	fields.Amount, _ = cmd.Flags().GetString("amount")
	fields.TaxAmount, _ = cmd.Flags().GetString("tax")

	if date, _ := cmd.Flags().GetString("date"); date != "" {
		iso, ok := model.NormalizeDate(date)
		if !ok {
			return fields, fmt.Errorf("unrecognized date %q", date)
		}
		fields.Date = iso
	}
	return fields, nil
}

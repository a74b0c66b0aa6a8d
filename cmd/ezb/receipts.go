package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ezbooks/ezb/internal/cli"
	"github.com/ezbooks/ezb/internal/daterange"
	"github.com/ezbooks/ezb/internal/model"
)

func receiptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipts",
		Short: "List and edit receipts",
	}

	cmd.AddCommand(receiptsListCmd())
	cmd.AddCommand(receiptsImageCmd())
	cmd.AddCommand(receiptsSetCmd())
	cmd.AddCommand(receiptsDeleteCmd())
	cmd.AddCommand(receiptsDeleteAllCmd())

	return cmd
}

// rangeFlags adds --from/--to and resolves them against the
// current-month default.
func rangeFlags(cmd *cobra.Command) func() (daterange.Range, error) {
	cmd.Flags().String("from", "", "range start (defaults to the 1st of this month)")
	cmd.Flags().String("to", "", "range end (defaults to today)")

	return func() (daterange.Range, error) {
		r := daterange.CurrentMonthToToday(time.Now())

		if from, _ := cmd.Flags().GetString("from"); from != "" {
			iso, ok := model.NormalizeDate(from)
			if !ok {
				return r, fmt.Errorf("unrecognized date %q", from)
			}
			r.SetStart(iso)
		}
		if to, _ := cmd.Flags().GetString("to"); to != "" {
			iso, ok := model.NormalizeDate(to)
			if !ok {
				return r, fmt.Errorf("unrecognized date %q", to)
			}
			r.SetEnd(iso)
		}
		return r, nil
	}
}

func receiptsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List receipts in a date range",
	}
	resolveRange := rangeFlags(cmd)

	cmd.RunE = func(c *cobra.Command, _ []string) error {
		backend, err := initBackend()
		if err != nil {
			return err
		}
		ctx := c.Context()

		r, err := resolveRange()
		if err != nil {
			return err
		}

		receipts, err := backend.ListReceipts(ctx, r.Start, r.End)
		if err != nil {
			return fmt.Errorf("listing receipts: %w", err)
		}

		vendors := map[string]string{}
		if vs, err := backend.ListVendors(ctx); err == nil {
			for _, v := range vs {
				vendors[v.ID] = v.Name
			}
		}

		fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Receipts %s", r)))
		if len(receipts) == 0 {
			fmt.Println(cli.SubtleStyle.Render("  (none)"))
			return nil
		}

		fmt.Printf("%-14s %-11s %-22s %-16s %10s  %s\n",
			"ID", "DATE", "VENDOR", "CATEGORY", "AMOUNT", "STATUS")
		for _, rc := range receipts {
			vendor := vendors[rc.VendorID]
			if vendor == "" {
				vendor = rc.VendorID
			}
			fmt.Printf("%-14s %-11s %-22s %-16s %10s  %s\n",
				rc.ID, rc.Date, truncate(vendor, 22), truncate(rc.Category, 16),
				"$"+rc.Amount.StringFixed(2), cli.StatusBadge(string(rc.Status)))
		}
		return nil
	}
	return cmd
}

var settableFields = map[string]model.ReceiptField{
	"date":     model.FieldDate,
	"vendor":   model.FieldVendorID,
	"category": model.FieldCategory,
	"amount":   model.FieldAmount,
	"tax":      model.FieldTaxAmount,
	"card":     model.FieldCardID,
	"job":      model.FieldJobID,
}

func receiptsImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image <id>",
		Short: "Print the signed URL of a receipt's image",
		Long: `Print the signed URL of a receipt's stored image.

The URL is time-limited; pipe it to a downloader or open it in a
browser before it expires.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			url, err := backend.ReceiptImageURL(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching image URL: %w", err)
			}

			fmt.Println(url)
			return nil
		},
	}
}

func receiptsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Set one field of a receipt",
		Long: `Set one field of a receipt.

Fields: date, vendor, category, amount, tax, card, job.
vendor, card, and job take IDs; category takes a name. Dates accept
common formats and are normalized to YYYY-MM-DD.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			field, ok := settableFields[strings.ToLower(args[1])]
			if !ok {
				return fmt.Errorf("unknown field %q", args[1])
			}

			value := args[2]
			if field == model.FieldDate {
				iso, ok := model.NormalizeDate(value)
				if !ok {
					return fmt.Errorf("unrecognized date %q", value)
				}
				value = iso
			}

			if err := backend.UpdateReceiptField(cmd.Context(), args[0], field, value); err != nil {
				return fmt.Errorf("updating receipt: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Updated %s of %s", args[1], args[0])))
			return nil
		},
	}
}

func receiptsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete receipts by ID",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			if err := backend.DeleteReceipts(cmd.Context(), args); err != nil {
				return fmt.Errorf("deleting receipts: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Deleted %d receipt(s)", len(args))))
			return nil
		},
	}
}

func receiptsDeleteAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every receipt on the account",
		RunE: func(c *cobra.Command, _ []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			force, _ := c.Flags().GetBool("force")
			if !force {
				fmt.Print(cli.WarningStyle.Render("This deletes EVERY receipt on the account.") + " Type yes to continue: ")
				line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
				if strings.TrimSpace(line) != "yes" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := backend.DeleteAllReceipts(c.Context()); err != nil {
				return fmt.Errorf("deleting receipts: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("All receipts deleted"))
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "skip the confirmation prompt")
	return cmd
}

// truncate shortens s for fixed-width table cells.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

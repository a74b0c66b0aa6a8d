package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezbooks/ezb/internal/cli"
)

func vendorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "Manage vendors",
	}

	cmd.AddCommand(vendorsListCmd())
	cmd.AddCommand(vendorsAddCmd())
	cmd.AddCommand(vendorsDeleteCmd())

	return cmd
}

func vendorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all vendors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			vendors, err := backend.ListVendors(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing vendors: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render("Vendors"))
			if len(vendors) == 0 {
				fmt.Println(cli.SubtleStyle.Render("  (none)"))
				return nil
			}
			for _, v := range vendors {
				fmt.Printf("  %-14s %s\n", v.ID, v.Name)
			}
			return nil
		},
	}
}

func vendorsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			vendor, err := backend.CreateVendor(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("creating vendor: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created vendor %s (%s)", vendor.Name, vendor.ID)))
			return nil
		},
	}
}

func vendorsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			if err := backend.DeleteVendor(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting vendor: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Deleted vendor " + args[0]))
			return nil
		},
	}
}

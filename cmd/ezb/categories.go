package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezbooks/ezb/internal/cli"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			categories, err := backend.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing categories: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render("Categories"))
			if len(categories) == 0 {
				fmt.Println(cli.SubtleStyle.Render("  (none)"))
				return nil
			}
			for _, c := range categories {
				if c.Description != "" {
					fmt.Printf("  %-20s %s\n", c.Name, cli.SubtleStyle.Render(c.Description))
				} else {
					fmt.Printf("  %s\n", c.Name)
				}
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().String("description", "", "optional category description")

	cmd.RunE = func(c *cobra.Command, args []string) error {
		backend, err := initBackend()
		if err != nil {
			return err
		}

		description, _ := c.Flags().GetString("description")
		category, err := backend.CreateCategory(c.Context(), args[0], description)
		if err != nil {
			return fmt.Errorf("creating category: %w", err)
		}

		fmt.Println(cli.SuccessStyle.Render("Created category " + category.Name))
		return nil
	}
	return cmd
}

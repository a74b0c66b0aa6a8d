package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezbooks/ezb/internal/cli"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List and register payment cards",
	}
	cmd.AddCommand(cardsListCmd())
	cmd.AddCommand(cardsAddCmd())
	return cmd
}

func cardsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <nickname> <last4> <brand>",
		Short: "Register a card",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateLast4(args[1]); err != nil {
				return err
			}

			backend, err := initBackend()
			if err != nil {
				return err
			}

			card, err := backend.CreateCard(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return fmt.Errorf("creating card: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created card %s •••• %s (%s)", card.Nickname, card.Last4, card.ID)))
			return nil
		},
	}
}

// validateLast4 rejects anything but four digits before the request
// leaves the client.
func validateLast4(s string) error {
	if len(s) != 4 {
		return fmt.Errorf("last4 must be exactly 4 digits, got %q", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("last4 must be exactly 4 digits, got %q", s)
		}
	}
	return nil
}

func cardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			cards, err := backend.ListCards(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing cards: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render("Cards"))
			if len(cards) == 0 {
				fmt.Println(cli.SubtleStyle.Render("  (none)"))
				return nil
			}
			for _, c := range cards {
				line := fmt.Sprintf("  %-14s %-18s •••• %s", c.ID, c.Nickname, c.Last4)
				if !c.IsActive {
					line += cli.SubtleStyle.Render("  (inactive)")
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

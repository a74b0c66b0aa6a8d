package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezbooks/ezb/internal/cli"
)

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage job sites",
	}

	cmd.AddCommand(jobsListCmd())
	cmd.AddCommand(jobsAddCmd())
	cmd.AddCommand(jobsDeleteCmd())

	return cmd
}

func jobsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all jobs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			jobs, err := backend.ListJobs(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing jobs: %w", err)
			}

			fmt.Println(cli.TitleStyle.Render("Jobs"))
			if len(jobs) == 0 {
				fmt.Println(cli.SubtleStyle.Render("  (none)"))
				return nil
			}
			for _, j := range jobs {
				line := fmt.Sprintf("  %-14s %-24s %s", j.ID, j.Name, j.Status)
				if j.ClientName != "" {
					line += cli.SubtleStyle.Render("  " + j.ClientName)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func jobsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			job, err := backend.CreateJob(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("creating job: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Created job %s (%s)", job.Name, job.ID)))
			return nil
		},
	}
}

func jobsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := initBackend()
			if err != nil {
				return err
			}

			if err := backend.DeleteJob(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("deleting job: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Deleted job " + args[0]))
			return nil
		},
	}
}

package cli

import (
	"calquiz-service/internal/transport/terminal"
	"github.com/spf13/cobra"
)

// NewPlayCmd plays the game in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := newRuntime(ctx, *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			return terminal.Run(ctx, rt.service, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// NewScoresCmd prints the leaderboard.
func NewScoresCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := newRuntime(ctx, *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			records, err := rt.service.Leaderboard(ctx)
			if err != nil {
				return err
			}
			terminal.PrintLeaderboard(cmd.OutOrStdout(), records)
			return nil
		},
	}
}

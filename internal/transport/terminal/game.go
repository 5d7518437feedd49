// Package terminal is a line-oriented console front-end for the game service.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"calquiz-service/internal/app"
	"calquiz-service/internal/domain"
)

// Run plays games until input ends or the player declines another round.
func Run(ctx context.Context, service *app.GameService, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	snap := service.Start(ctx)
	defer service.Leave(context.Background(), snap.SessionID)

	fmt.Fprintf(out, "Lives: %d. Answer with whole numbers; division drops the remainder.\n", snap.Lives)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s ", snap.Question)
		if !scanner.Scan() {
			return scanner.Err()
		}

		outcome, err := service.SubmitAnswer(ctx, snap.SessionID, scanner.Text())
		if err != nil {
			return err
		}
		snap = outcome.Snapshot
		if outcome.Correct {
			fmt.Fprintf(out, "%s +%d  score %d  lives %s\n", outcome.Feedback, outcome.Awarded, snap.Score, hearts(snap))
		} else {
			fmt.Fprintf(out, "%s  score %d  lives %s\n", outcome.Feedback, snap.Score, hearts(snap))
		}
		if !outcome.GameOver {
			continue
		}

		if err := gameOver(ctx, service, snap.SessionID, scanner, out); err != nil {
			return err
		}
		fmt.Fprint(out, "Play again? [y/N] ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
			return nil
		}
		if snap, err = service.Snapshot(ctx, snap.SessionID); err != nil {
			return err
		}
	}
}

func gameOver(ctx context.Context, service *app.GameService, sessionID string, scanner *bufio.Scanner, out io.Writer) error {
	summary, err := service.GameOverSummary(ctx, sessionID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Game Over!")
	fmt.Fprintf(out, "Final score: %d\n", summary.Score)
	fmt.Fprintf(out, "Total time: %ds\n", summary.TotalTime)
	if summary.Best != nil {
		fmt.Fprintf(out, "Highest score: %d by %s on %s (%ds)\n",
			summary.Best.Score, summary.Best.Name, summary.Best.Date, summary.Best.TotalTime)
	}

	for {
		fmt.Fprint(out, "Your name: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return io.ErrUnexpectedEOF
		}
		accepted, err := service.SubmitName(ctx, sessionID, scanner.Text())
		if err != nil {
			return err
		}
		if accepted {
			return nil
		}
		fmt.Fprintln(out, "A name is required.")
	}
}

// PrintLeaderboard writes the ranked list as a table.
func PrintLeaderboard(out io.Writer, records []domain.ScoreRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No scores yet.")
		return
	}
	for i, r := range records {
		fmt.Fprintf(out, "%2d. %-16s %4d  %s  %ds\n", i+1, r.Name, r.Score, r.Date, r.TotalTime)
	}
}

func hearts(snap domain.SessionSnapshot) string {
	return strings.Repeat("♥", snap.Lives) + strings.Repeat("♡", snap.MaxLives-snap.Lives)
}

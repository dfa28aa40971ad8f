package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/i2p-business/i2p/internal/config"
	"github.com/i2p-business/i2p/internal/initialization"
	"github.com/i2p-business/i2p/pkg/advisor"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	taskTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorError)

	badgeComplete  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000")).Background(colorSuccess).Padding(0, 1)
	badgeTruncated = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#000")).Background(colorWarning).Padding(0, 1)
)

func NewAskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Ask the advisor a single question",
		Long: `Classify the message, generate every detected task and print the results.
With --continue the last task of the session is resumed instead.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cont, _ := cmd.Flags().GetBool("continue")
			sessionID, _ := cmd.Flags().GetString("session")

			message := strings.Join(args, " ")
			if message == "" && !cont {
				return fmt.Errorf("message is required")
			}

			return runAsk(cmd.Context(), cmd.OutOrStdout(), advisor.GenerateParams{
				SessionID: sessionID,
				Message:   message,
				Continue:  cont,
			})
		},
	}

	cmd.Flags().Bool("continue", false, "Continue the last task of the session")
	cmd.Flags().String("session", types.DefaultSessionID, "Session to read and update")

	return cmd
}

func runAsk(ctx context.Context, out io.Writer, p advisor.GenerateParams) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	deps, err := initialization.BuildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to close session store")
		}
	}()

	resp := deps.Orchestrator.GenerateResponse(ctx, p)

	renderResponse(out, resp)

	if resp.IsError() {
		return fmt.Errorf("advisor failed: %s", resp.Error)
	}
	return nil
}

func renderResponse(out io.Writer, resp advisor.Response) {
	for pair := resp.Tasks.Oldest(); pair != nil; pair = pair.Next() {
		task := pair.Value

		title := taskTitleStyle.Render(strings.ToUpper(strings.ReplaceAll(pair.Key, "_", " ")))
		if task.ModelUsed != "" {
			title += " " + mutedStyle.Render("("+task.ModelUsed+")")
		}

		fmt.Fprintln(out, title)

		if pair.Key == advisor.ErrorTaskKey {
			fmt.Fprintln(out, errorStyle.Render(task.Output))
			continue
		}

		fmt.Fprintln(out, task.Output)

		if task.Truncated {
			fmt.Fprintln(out, badgeTruncated.Render("TRUNCATED")+" "+mutedStyle.Render("run again with --continue for more"))
		} else {
			fmt.Fprintln(out, badgeComplete.Render("COMPLETE"))
		}
		fmt.Fprintln(out)
	}
}

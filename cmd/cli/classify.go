package cli

import (
	"fmt"
	"strings"

	"github.com/i2p-business/i2p/pkg/advisor"

	"github.com/spf13/cobra"
)

func NewClassifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Show which tasks a message would be routed to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := advisor.Classify(strings.Join(args, " "))

			for i, task := range result.Tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s  model=%s  max_tokens=%d\n",
					i+1, task, advisor.ModelName(task.Model()), task.MaxTokens())
			}

			return nil
		},
	}

	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAskCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the language model a question about books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := setup(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			defer a.Close()  //nolint:errcheck

			answer, err := a.Service.Answer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

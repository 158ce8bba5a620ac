package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bookchat/internal/catalog"
	"bookchat/internal/service"
)

func newLookupCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [query]",
		Short: "Find a book and similar recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, log, err := setup(cmd.Context(), opts, false)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			defer a.Close()  //nolint:errcheck

			res, err := a.Service.Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printLookup(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func printLookup(w io.Writer, res *service.Lookup) {
	if res.Primary == nil {
		fmt.Fprintf(w, "No match for %q\n", res.Query)
	} else {
		b := *res.Primary
		fmt.Fprintf(w, "Cover: %s\n", catalog.CoverImage(b.CoverURL))
		printFields(w, catalog.Describe(b))
		fmt.Fprintf(w, "Summary: %s\n", res.PrimarySummary)
	}
	if len(res.Similar) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRecommended Books")
	for _, r := range res.Similar {
		fmt.Fprintln(w, "---")
		fmt.Fprintf(w, "Cover: %s\n", catalog.CoverImage(r.Book.CoverURL))
		printFields(w, catalog.DescribeBrief(r.Book))
		fmt.Fprintf(w, "Summary: %s\n", r.Summary)
	}
}

func printFields(w io.Writer, fields []catalog.Field) {
	for _, f := range fields {
		fmt.Fprintf(w, "%s: %s\n", f.Label, f.Value)
	}
}

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/BooManLag/trippit-app-sub000/internal/catalog"
	"github.com/BooManLag/trippit-app-sub000/internal/domain"
)

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the badge catalog",
	}

	var family string
	list := &cobra.Command{
		Use:   "list",
		Short: "List badges, optionally for one family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			badges := catalog.Default().List()
			if family != "" {
				badges = catalog.Default().ByFamily(domain.Family(family))
			}
			return printBadges(cmd, opts, badges)
		},
	}
	list.Flags().StringVar(&family, "family", "", "only badges of this family (dare|checklist|invitation|combo)")

	cmd.AddCommand(list)
	return cmd
}

func printBadges(cmd *cobra.Command, opts *RootOptions, badges []domain.Badge) error {
	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), badges)
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tFAMILY\tMETRIC\tREQUIREMENT\tSCOPE")
	for _, b := range badges {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %d\t%s\n", b.Key, b.Family, b.Metric, b.RequirementType, b.RequirementValue, b.Scope)
	}
	return tw.Flush()
}

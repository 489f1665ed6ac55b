package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/BooManLag/trippit-app-sub000/internal/cache"
	"github.com/BooManLag/trippit-app-sub000/internal/catalog"
	"github.com/BooManLag/trippit-app-sub000/internal/repo"
	"github.com/BooManLag/trippit-app-sub000/internal/services"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	UserID  string
	TripID  string
	Timeout time.Duration
	Retries int
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <family>",
		Short: "Re-evaluate one badge family for a user",
		Long: `Re-evaluate one badge family (dare, checklist, invitation, combo, or all)
for a user, exactly as the trigger endpoints do, and print the badges this
run newly awarded.

Example:
  badgectl check dare --user u1 --trip 3f1c...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, strings.ToLower(args[0]))
		},
	}

	cmd.Flags().StringVar(&opts.UserID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&opts.TripID, "trip", "", "trip id; empty evaluates global badges only")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", services.DefaultEvalTimeout, "per-family evaluation timeout")
	cmd.Flags().IntVar(&opts.Retries, "retries", services.DefaultRetryPolicy.MaxRetries, "retries per source read")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions, family string) error {
	ctx := cmd.Context()
	db, closeFn, err := opts.openDB(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	policy := services.DefaultRetryPolicy
	policy.MaxRetries = opts.Retries
	disp := services.NewDispatcher(db, catalog.Default(), services.WithRetry(repo.Sources{DB: db}, policy), cache.Nop{}, nil)
	disp.Timeout = opts.Timeout

	rep, err := disp.Check(ctx, family, opts.UserID, opts.TripID)
	if err != nil {
		return fmt.Errorf("%w %q (want one of dare, checklist, invitation, combo, all)", err, family)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), rep)
	}
	if len(rep.NewlyAwarded) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no new badges")
		return nil
	}
	for _, key := range rep.NewlyAwarded {
		fmt.Fprintf(cmd.OutOrStdout(), "awarded %s\n", key)
	}
	return nil
}

// NewAwardsCommand creates the awards command.
func NewAwardsCommand(opts *RootOptions) *cobra.Command {
	var userID, tripID string
	cmd := &cobra.Command{
		Use:   "awards",
		Short: "List a user's earned badges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeFn, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			awards, err := repo.ListAwards(cmd.Context(), db, userID, tripID)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), awards)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BADGE\tNAME\tTRIP\tEARNED")
			for _, a := range awards {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.BadgeKey, a.Badge.Name, tripLabel(a.TripID), a.EarnedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&tripID, "trip", "", "limit to one trip plus global badges")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// NewProgressCommand creates the progress command.
func NewProgressCommand(opts *RootOptions) *cobra.Command {
	var userID, tripID string
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "List a user's badge progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeFn, err := opts.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			rows, err := repo.ListProgress(cmd.Context(), db, userID, tripID)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BADGE\tTRIP\tPROGRESS\tUPDATED")
			for _, p := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\n", p.BadgeKey, tripLabel(p.TripID), p.CurrentCount, p.TargetCount, p.UpdatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&tripID, "trip", "", "limit to one trip plus global rows")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func tripLabel(id string) string {
	if id == "" {
		return "(global)"
	}
	return id
}

// Command xpctl inspects the XP curve, manages the database schema and
// reads the dead-letter file of undelivered events.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/osse101/XPEngine_Go/internal/leveling"
)

type rootOptions struct {
	maxLevel int
	jsonOut  bool
}

func (o *rootOptions) curve() (leveling.Curve, error) {
	return leveling.NewCurve(o.maxLevel)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "xpctl",
		Short:         "Inspect the XP curve and manage the XP engine database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().IntVar(&opts.maxLevel, "max-level", leveling.DefaultMaxLevel, "level bound used for resolution")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print JSON instead of text")

	root.AddCommand(
		newRequiredCmd(opts),
		newLevelCmd(opts),
		newProgressCmd(opts),
		newMilestoneCmd(opts),
		newTableCmd(opts),
		newMigrateCmd(),
		newDeadLetterCmd(opts),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/XPEngine_Go/internal/domain"
	"github.com/osse101/XPEngine_Go/internal/leveling"
)

func newRequiredCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "required <level>",
		Short: "XP needed to advance from a level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseInt(args[0], "level")
			if err != nil {
				return err
			}
			curve, err := opts.curve()
			if err != nil {
				return err
			}
			row, err := curve.Threshold(int(level))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, map[string]int64{
					"level":         int64(row.Level),
					"required_xp":   row.RequiredXP,
					"cumulative_xp": row.CumulativeXP,
				})
			}
			p := printer()
			p.Fprintf(out, "level %d: %d XP to next level (%d XP to reach)\n", row.Level, row.RequiredXP, row.CumulativeXP)
			return nil
		},
	}
}

func newLevelCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "level <xp>",
		Short: "Level for a total XP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xp, err := parseInt(args[0], "xp")
			if err != nil {
				return err
			}
			curve, err := opts.curve()
			if err != nil {
				return err
			}
			res, err := curve.LevelFromXP(xp)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, res)
			}
			suffix := ""
			if res.Capped {
				suffix = " (max level)"
			}
			printer().Fprintf(out, "%d XP is level %d%s\n", res.TotalXP, res.Level, suffix)
			return nil
		},
	}
}

func newProgressCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <xp>",
		Short: "Progress snapshot for a total XP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			xp, err := parseInt(args[0], "xp")
			if err != nil {
				return err
			}
			curve, err := opts.curve()
			if err != nil {
				return err
			}
			snap, err := curve.Progress(xp)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, snap)
			}
			printer().Fprintf(out, "level %d: %d/%d XP (%d%%)\n",
				snap.CurrentLevel, snap.XPIntoCurrentLevel, snap.XPRequiredForNextLevel, snap.ProgressPercentage)
			return nil
		},
	}
}

func newMilestoneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "milestone <level>",
		Short: "Classify a level as a milestone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseInt(args[0], "level")
			if err != nil {
				return err
			}
			if level < 1 {
				return fmt.Errorf("%w: level must be at least 1", domain.ErrInvalidInput)
			}
			m := leveling.ClassifyMilestone(int(level))

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, m)
			}
			if !m.IsMilestone {
				fmt.Fprintf(out, "level %d is not a milestone\n", m.Level)
				return nil
			}
			fmt.Fprintf(out, "level %d is a %s milestone\n", m.Level, m.Tier)
			return nil
		},
	}
}

func newTableCmd(opts *rootOptions) *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Threshold table for a level range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("to") {
				to = from + 19
			}
			curve, err := opts.curve()
			if err != nil {
				return err
			}
			rows, err := curve.Thresholds(from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return writeJSON(out, rows)
			}
			return writeTable(out, rows)
		},
	}
	cmd.Flags().IntVar(&from, "from", 1, "first level")
	cmd.Flags().IntVar(&to, "to", 20, "last level")
	return cmd
}

func writeTable(w io.Writer, rows []domain.Threshold) error {
	p := printer()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "LEVEL\tREQUIRED\tCUMULATIVE\tMILESTONE\t")
	for _, row := range rows {
		p.Fprintf(tw, "%d\t%d\t%d\t%s\t\n", row.Level, row.RequiredXP, row.CumulativeXP, row.Milestone.Tier)
	}
	return tw.Flush()
}

func parseInt(raw, name string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrInvalidInput, name, raw)
	}
	return v, nil
}

// printer groups digits so large XP totals stay readable
func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/XPEngine_Go/internal/config"
	"github.com/osse101/XPEngine_Go/internal/event"
)

func newDeadLetterCmd(opts *rootOptions) *cobra.Command {
	var eventType string

	cmd := &cobra.Command{
		Use:   "deadletter [file]",
		Short: "List events the service gave up delivering",
		Long:  "Reads the dead-letter file (default DEAD_LETTER_PATH) and prints one row per undelivered event.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := os.Getenv("DEAD_LETTER_PATH")
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = config.DefaultDeadLetterPath
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			entries, err := event.ReadDeadLetters(f)
			if err != nil {
				return err
			}
			if eventType != "" {
				entries = filterByType(entries, event.Type(eventType))
			}

			if opts.jsonOut {
				if entries == nil {
					entries = []event.DeadLetterEntry{}
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			return writeDeadLetters(cmd.OutOrStdout(), entries)
		},
	}
	cmd.Flags().StringVar(&eventType, "type", "", "only show events of this type (e.g. level.up)")
	return cmd
}

func filterByType(entries []event.DeadLetterEntry, t event.Type) []event.DeadLetterEntry {
	var out []event.DeadLetterEntry
	for _, e := range entries {
		if e.Event.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func writeDeadLetters(w io.Writer, entries []event.DeadLetterEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tATTEMPTS\tERROR")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Timestamp.Format(time.RFC3339), e.Event.Type, e.Attempts, e.LastError)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d undelivered\n", len(entries))
	return err
}

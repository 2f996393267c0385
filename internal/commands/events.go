package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/eventlog"
)

func newEventsCommand(g *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent entries from the event log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd, g)
			if err != nil {
				return err
			}
			if e.cfg.Log.Events == "" {
				return fmt.Errorf("event logging is off (log.events is empty)")
			}
			entries, err := eventlog.Read(e.cfg.Log.Events)
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
			for _, en := range entries {
				line := fmt.Sprintf("%s  %-20s  %s", en.Timestamp.Local().Format(time.DateTime), en.Event, en.Details)
				if en.ErrorID != 0 {
					e.out.Error(fmt.Sprintf("%s (error %d)", line, en.ErrorID))
					continue
				}
				e.out.Line("%s", line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "show at most this many of the newest entries (0 for all)")
	return cmd
}

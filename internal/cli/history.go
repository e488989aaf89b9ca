package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-bikerental/internal/output"
)

// createHistoryCmd creates an isolated history command with the given flags
func createHistoryCmd(flags *Flags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent predictions from the prediction store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig(ctx, flags)
			if err != nil {
				return err
			}
			rec, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			if rec == nil {
				return ErrNoStore
			}
			defer func() { _ = rec.Close() }()

			records, err := rec.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				output.Info("No predictions recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, r := range records {
				rows = append(rows, []string{
					r.CreatedAt.Format(time.RFC3339),
					r.RequestID,
					r.ModelVersion,
					r.Status,
					strconv.Itoa(r.RecordCount),
					strconv.Itoa(r.ErrorCount),
					strconv.FormatInt(r.DurationMs, 10),
				})
			}
			output.Table([]string{"CREATED", "REQUEST", "VERSION", "STATUS", "RECORDS", "ERRORS", "MS"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of predictions to show")
	return cmd
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/go-bikerental/internal/dataset"
	"github.com/mrz1836/go-bikerental/internal/output"
)

type validateOptions struct {
	dataFile string
}

// createValidateCmd creates an isolated validate command with the given flags
func createValidateCmd(flags *Flags) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and optionally a data file",
		Long: `Validate the configuration file for syntax and semantic errors.

With --data, every row of the CSV is also checked against the input schema and
the field errors are reported the same way the prediction service reports them.`,
		Aliases: []string{"check"},
		Args:    cobra.NoArgs,
		RunE:    createRunValidate(flags, opts),
	}

	cmd.Flags().StringVarP(&opts.dataFile, "data", "d", "", "CSV file to check against the input schema")
	return cmd
}

func createRunValidate(flags *Flags, opts *validateOptions) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := commandLogger(ctx, "validate")

		cfg, err := loadConfig(ctx, flags)
		if err != nil {
			return err
		}
		output.Success("Configuration is valid")

		if opts.dataFile == "" {
			return nil
		}

		data, err := dataset.ReadCSVFile(opts.dataFile)
		if err != nil {
			return err
		}
		_, payload := newValidator(ctx, cfg).Validate(data.Records())
		log.WithField("field_errors", payload.Len()).Debug("Data file validated")

		if payload.Len() == 0 {
			output.Successf("All %d rows of %s are valid", data.Len(), opts.dataFile)
			return nil
		}

		rows := make([][]string, 0, payload.Len())
		for _, fe := range payload {
			rows = append(rows, []string{formatLoc(fe.Loc), fe.Type, fe.Msg, fmt.Sprint(fe.Input)})
		}
		output.Table([]string{"LOCATION", "TYPE", "MESSAGE", "INPUT"}, rows)
		return payload.Err()
	}
}

// formatLoc renders a field error location as inputs.3.hum
func formatLoc(loc []any) string {
	parts := make([]string, len(loc))
	for i, p := range loc {
		parts[i] = fmt.Sprint(p)
	}
	return strings.Join(parts, ".")
}

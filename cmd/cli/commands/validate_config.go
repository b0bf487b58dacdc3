package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/services"
)

// ValidateConfigCmd creates the validateConfig command
func ValidateConfigCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validateConfig",
		Short: "Check the configuration and catalog without scheduling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("validateConfig command")

			report, err := services.ValidateConfig(app.Cfg, app.Logger)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\n✓ Configuration is valid!\n\n")
			fmt.Fprintf(w, "Cabins:  %d\n", report.Cabins)
			fmt.Fprintf(w, "Areas:   %d\n", report.Areas)
			fmt.Fprintf(w, "Periods: %d across %d days\n\n", report.Periods, report.Days)

			if len(report.Warnings) > 0 {
				fmt.Fprintf(w, "⚠️  %d warnings:\n", len(report.Warnings))
				for _, warning := range report.Warnings {
					fmt.Fprintf(w, "  - %s\n", warning)
				}
				fmt.Fprintln(w)
			}

			return nil
		},
	}
}

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/scheduler"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/services"
)

// ListCatalogCmd creates the listCatalog command
func ListCatalogCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listCatalog",
		Short: "List the cabins, activity areas and periods that would be scheduled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, _ := cmd.Flags().GetInt("day")
			catalogEnv, _ := cmd.Flags().GetString("catalog-env")

			cfg := *app.Cfg
			if catalogEnv != "" {
				cfg.CatalogEnvFile = catalogEnv
			}

			app.Logger.Debug("listCatalog command", zap.Int("day", day))

			summary, err := services.ListCatalog(&cfg, app.Logger)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\nCatalog from %s\n\n", summary.Source)
			printCabins(w, summary.Catalog.Cabins)
			printAreas(w, summary.Catalog.Areas)
			printPeriods(w, summary.Catalog.Periods, day)

			if summary.ChoicePeriods > 0 {
				fmt.Fprintf(w, "%d choice periods are filled from choicePeriods only\n\n", summary.ChoicePeriods)
			}

			return nil
		},
	}

	cmd.Flags().Int("day", 0, "Only list periods on this day")
	cmd.Flags().String("catalog-env", "", "Env file to synthesise cabins, areas and periods from")

	return cmd
}

func printCabins(w io.Writer, cabins []model.Cabin) {
	fmt.Fprintf(w, "Cabins (%d):\n", len(cabins))
	for _, cabin := range scheduler.SortCabinsByPriority(cabins) {
		fmt.Fprintf(w, "  - %s (%s) - %s, %s - size %d, priority %d\n",
			cabin.Name, cabin.ID, cabin.Unit, cabin.AgeGroup, cabin.Size, cabin.Priority)
	}
	fmt.Fprintln(w)
}

func printAreas(w io.Writer, areas []model.ActivityArea) {
	fmt.Fprintf(w, "Activity areas (%d):\n", len(areas))
	for _, area := range areas {
		var notes []string
		if area.Category != "" {
			notes = append(notes, area.Category)
		}
		if area.DoubleBooking.Likelihood != model.LikelihoodNever {
			notes = append(notes, fmt.Sprintf("double booking %s up to %d", area.DoubleBooking.Likelihood, area.RelaxedCapacity()))
		}
		if area.AlternatesDays {
			notes = append(notes, "alternate days")
		}
		if len(area.LinkedAreas) > 0 {
			notes = append(notes, "linked to "+strings.Join(area.LinkedAreas, ", "))
		}

		noteInfo := ""
		if len(notes) > 0 {
			noteInfo = fmt.Sprintf(" [%s]", strings.Join(notes, "; "))
		}
		fmt.Fprintf(w, "  - %s (%s) - capacity %d%s\n", area.Name, area.ID, area.MaxCapacity, noteInfo)
	}
	fmt.Fprintln(w)
}

func printPeriods(w io.Writer, periods []model.Period, day int) {
	sorted := scheduler.SortPeriodsChronologically(periods)
	if day > 0 {
		sorted = scheduler.PeriodsForDay(sorted, day)
	}

	fmt.Fprintf(w, "Periods (%d):\n", len(sorted))
	currentDay := 0
	for _, period := range sorted {
		if period.Day != currentDay {
			currentDay = period.Day
			fmt.Fprintf(w, "  Day %d\n", currentDay)
		}

		var flags []string
		if period.IsChoicePeriod {
			flags = append(flags, "choice")
		}
		if len(period.ClosedAreas) > 0 {
			flags = append(flags, "closed: "+strings.Join(period.ClosedAreas, ", "))
		}
		flagInfo := ""
		if len(flags) > 0 {
			flagInfo = fmt.Sprintf(" [%s]", strings.Join(flags, "; "))
		}

		fmt.Fprintf(w, "    %04d-%04d %s (%s)%s\n", period.StartTime, period.EndTime, period.Name, period.ID, flagInfo)
	}
	fmt.Fprintln(w)
}

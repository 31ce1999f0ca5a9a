package main

import (
	"context"
	"fmt"
	"io"

	"github.com/2beens/fitdiet/internal/nutrition"
	"github.com/2beens/fitdiet/internal/tracker"

	"github.com/spf13/cobra"
)

func newTodayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's calories, macros and BMI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				dash, err := a.tracker.Today(ctx)
				if err != nil {
					return storageFailed("load today's summary", err)
				}
				return printDashboard(cmd.OutOrStdout(), dash)
			})
		},
	}
}

func printDashboard(w io.Writer, dash *tracker.Dashboard) error {
	if dash.Name != "" {
		fmt.Fprintf(w, "%s, %s!\n", dash.Greeting, dash.Name)
	} else {
		fmt.Fprintf(w, "%s!\n", dash.Greeting)
	}
	if dash.Goal != "" {
		fmt.Fprintf(w, "Goal: %s\n", dash.Goal)
	}

	cal := dash.Summary.Calories
	fmt.Fprintf(w, "\nCalories: %d / %d kcal (%.0f%%)\n", cal.Total, dash.Target, dash.Progress*100)
	fmt.Fprintf(w, "  Breakfast: %d  Lunch: %d  Dinner: %d\n", cal.Breakfast, cal.Lunch, cal.Dinner)

	m := dash.Summary.Macros
	fmt.Fprintf(w, "Macros: protein %s, carbs %s, fat %s\n", formatGrams(m.Protein), formatGrams(m.Carbs), formatGrams(m.Fat))

	if dash.BMI > 0 {
		fmt.Fprintf(w, "BMI: %.1f (%s)\n", dash.BMI, dash.BMIClass.Category)
	} else {
		fmt.Fprintf(w, "BMI: %s\n", nutrition.NotAvailable)
	}

	if len(dash.Summary.Entries) == 0 {
		fmt.Fprintln(w, "\nNothing logged today.")
		return nil
	}

	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "MEAL\tFOOD\tKCAL")
	for _, e := range dash.Summary.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", e.Meal, e.Title(), e.Calories)
	}
	return tw.Flush()
}

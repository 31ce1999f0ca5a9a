package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/2beens/fitdiet/internal/catalog"
	"github.com/2beens/fitdiet/internal/generation"
	"github.com/2beens/fitdiet/internal/ledger"

	"github.com/spf13/cobra"
)

func newFoodCmd(opts *rootOptions) *cobra.Command {
	foodCmd := &cobra.Command{
		Use:   "food",
		Short: "Search, look up and log food",
	}

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the built-in Indian food catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items := catalog.Default().Search(strings.Join(args, " "))
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No foods found.")
				return nil
			}
			return printFoodItems(cmd.OutOrStdout(), items)
		},
	}

	lookupCmd := &cobra.Command{
		Use:   "lookup <food description>",
		Short: "Look up nutrition per 100g for any food",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				client, err := a.generationClient()
				if err != nil {
					return err
				}
				rec, err := client.GetFoodNutrition(ctx, strings.Join(args, " "))
				if err != nil {
					if isPlain(err) {
						return err
					}
					return &userError{Msg: "Failed to get nutrition information. Please try again.", Err: err}
				}
				printNutritionRecord(cmd.OutOrStdout(), rec)
				return nil
			})
		},
	}

	var meal, catalogName, lookupQuery, grams string
	var servings float64
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Log a meal from the catalog or from a nutrition lookup",
		Example: `  fitdiet food log --meal breakfast --catalog "Idli (2 pieces)" --servings 2
  fitdiet food log --meal dinner --lookup "chicken biryani" --grams 250`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ledger.ParseMeal(meal)
			if err != nil {
				return err
			}
			if (catalogName == "") == (lookupQuery == "") {
				return fmt.Errorf("use exactly one of --catalog or --lookup")
			}

			return opts.run(cmd, func(ctx context.Context, a *app) error {
				var entry *ledger.FoodEntry
				if catalogName != "" {
					item, err := a.catalog.Find(catalogName)
					if err != nil {
						return err
					}
					if entry, err = a.tracker.LogCatalogItem(ctx, m, item, servings); err != nil {
						return storageFailed("log food", err)
					}
				} else {
					client, err := a.generationClient()
					if err != nil {
						return err
					}
					rec, err := client.GetFoodNutrition(ctx, lookupQuery)
					if err != nil {
						if isPlain(err) {
							return err
						}
						return &userError{Msg: "Failed to get nutrition information. Please try again.", Err: err}
					}
					if entry, err = a.tracker.LogNutrition(ctx, m, rec, grams); err != nil {
						return storageFailed("log food", err)
					}
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Logged %s for %s: %d kcal, P %s, C %s, F %s\n",
					entry.Title(), entry.Meal, entry.Calories,
					formatGrams(entry.Protein), formatGrams(entry.Carbs), formatGrams(entry.Fat))
				return nil
			})
		},
	}
	logCmd.Flags().StringVar(&meal, "meal", "", "meal [breakfast | lunch | dinner]")
	logCmd.Flags().StringVar(&catalogName, "catalog", "", "exact catalog food name (see: fitdiet food search)")
	logCmd.Flags().Float64Var(&servings, "servings", 1, "servings of the catalog food")
	logCmd.Flags().StringVar(&lookupQuery, "lookup", "", "food description to look up")
	logCmd.Flags().StringVar(&grams, "grams", "100", "eaten quantity in grams, for --lookup")
	_ = logCmd.MarkFlagRequired("meal")

	var all bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List today's food entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				var entries []ledger.FoodEntry
				var err error
				if all {
					entries, err = a.foods.List(ctx)
				} else {
					entries, err = a.foods.Today(ctx, time.Now(), a.cfg.Location())
				}
				if err != nil {
					return storageFailed("load food entries", err)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No food logged.")
					return nil
				}

				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "DATE\tMEAL\tFOOD\tKCAL\tPROTEIN\tCARBS\tFAT")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
						e.Date.In(a.cfg.Location()).Format("2006-01-02 15:04"), e.Meal, e.Title(), e.Calories,
						formatGrams(e.Protein), formatGrams(e.Carbs), formatGrams(e.Fat))
				}
				return tw.Flush()
			})
		},
	}
	listCmd.Flags().BoolVar(&all, "all", false, "list every entry, not only today's")

	foodCmd.AddCommand(searchCmd, lookupCmd, logCmd, listCmd)
	return foodCmd
}

func newCatalogCmd() *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the built-in Indian food catalog",
	}

	categoriesCmd := &cobra.Command{
		Use:   "categories",
		Short: "List the catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range catalog.Default().Categories() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}

	categoryCmd := &cobra.Command{
		Use:   "category <name>",
		Short: "List the foods of one category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			var items []catalog.FoodItem
			for _, c := range catalog.Default().Categories() {
				if strings.EqualFold(c, name) {
					items = catalog.Default().ByCategory(c)
					break
				}
			}
			if len(items) == 0 {
				return fmt.Errorf("no catalog category %q, see: fitdiet catalog categories", name)
			}
			return printFoodItems(cmd.OutOrStdout(), items)
		},
	}

	catalogCmd.AddCommand(categoriesCmd, categoryCmd)
	return catalogCmd
}

func printFoodItems(w io.Writer, items []catalog.FoodItem) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "FOOD\tCATEGORY\tKCAL\tPROTEIN\tCARBS\tFAT\tFIBER")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%s\t%s\t%s\t%s\n",
			it.Name, it.Category, it.Calories,
			formatGrams(it.Protein), formatGrams(it.Carbs), formatGrams(it.Fat), formatGrams(it.Fiber))
	}
	return tw.Flush()
}

func printNutritionRecord(w io.Writer, rec *generation.NutritionRecord) {
	fmt.Fprintf(w, "%s (per 100g)\n", rec.Name)
	fmt.Fprintf(w, "  Calories: %.0f kcal\n", rec.Calories)
	fmt.Fprintf(w, "  Protein:  %s\n", formatGrams(rec.Protein))
	fmt.Fprintf(w, "  Carbs:    %s\n", formatGrams(rec.Carbs))
	fmt.Fprintf(w, "  Fat:      %s\n", formatGrams(rec.Fat))
	fmt.Fprintf(w, "  Fiber:    %s\n", formatGrams(rec.Fiber))
	if rec.ServingSize != "" {
		fmt.Fprintf(w, "  Serving:  %s\n", rec.ServingSize)
	}
}

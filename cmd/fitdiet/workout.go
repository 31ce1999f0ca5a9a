package main

import (
	"context"
	"fmt"

	"github.com/2beens/fitdiet/internal/ledger"
	"github.com/2beens/fitdiet/internal/tracker"

	"github.com/spf13/cobra"
)

func newWorkoutCmd(opts *rootOptions) *cobra.Command {
	workoutCmd := &cobra.Command{
		Use:   "workout",
		Short: "Log and review workouts",
	}

	var in tracker.WorkoutInput
	addCmd := &cobra.Command{
		Use:     "add",
		Short:   "Log a workout",
		Example: `  fitdiet workout add --exercise "Bench Press" --sets 3 --reps 10 --weight 60`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				w, err := a.tracker.LogWorkout(ctx, in)
				if err != nil {
					return storageFailed("log workout", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Logged %s (%s).\n", w.Exercise, w.ID)
				return nil
			})
		},
	}
	addCmd.Flags().StringVar(&in.Exercise, "exercise", "", "exercise name")
	addCmd.Flags().StringVar(&in.Sets, "sets", "", "number of sets")
	addCmd.Flags().StringVar(&in.Reps, "reps", "", "reps per set")
	addCmd.Flags().StringVar(&in.Weight, "weight", "", "weight used")
	addCmd.Flags().StringVar(&in.Notes, "notes", "", "free form notes")
	_ = addCmd.MarkFlagRequired("exercise")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List logged workouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				workouts, err := a.workouts.List(ctx)
				if err != nil {
					return storageFailed("load workouts", err)
				}
				if len(workouts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No workouts logged.")
					return nil
				}

				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tDATE\tEXERCISE\tSETS\tREPS\tWEIGHT\tNOTES")
				for _, w := range workouts {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						w.ID, w.Date.In(a.cfg.Location()).Format("2006-01-02 15:04"),
						w.Exercise, w.Sets, w.Reps, w.Weight, w.Notes)
				}
				return tw.Flush()
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a workout by id or unique id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				workouts, err := a.workouts.List(ctx)
				if err != nil {
					return storageFailed("load workouts", err)
				}
				ids := make([]string, 0, len(workouts))
				for _, w := range workouts {
					ids = append(ids, w.ID)
				}
				id, err := resolveID(ids, args[0], ledger.ErrEntryNotFound)
				if err != nil {
					return err
				}

				if err := a.tracker.DeleteWorkout(ctx, id); err != nil {
					return storageFailed("delete workout", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Workout %s deleted.\n", id)
				return nil
			})
		},
	}

	workoutCmd.AddCommand(addCmd, listCmd, deleteCmd)
	return workoutCmd
}

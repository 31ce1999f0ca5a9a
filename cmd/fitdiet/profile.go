package main

import (
	"context"
	"fmt"

	"github.com/2beens/fitdiet/internal/nutrition"
	"github.com/2beens/fitdiet/internal/profile"

	"github.com/spf13/cobra"
)

func newProfileCmd(opts *rootOptions) *cobra.Command {
	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your profile",
	}

	var in profile.UserProfile
	var heightUnit, weightUnit, gender, workoutLevel, goal string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update your profile",
		Long:  "Create or update your profile. Flags that are not given keep their saved value.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				current, err := a.profiles.Get(ctx)
				if err != nil {
					return storageFailed("load profile", err)
				}
				p := profile.UserProfile{}
				if current != nil {
					p = *current
				}

				flags := cmd.Flags()
				if flags.Changed("name") {
					p.Name = in.Name
				}
				if flags.Changed("height") {
					p.Height = in.Height
				}
				if flags.Changed("height-unit") {
					p.HeightUnit = profile.HeightUnit(heightUnit)
				}
				if flags.Changed("weight") {
					p.Weight = in.Weight
				}
				if flags.Changed("weight-unit") {
					p.WeightUnit = profile.WeightUnit(weightUnit)
				}
				if flags.Changed("birthday") {
					p.Birthday = in.Birthday
					if !flags.Changed("age") {
						// recomputed from the new birthday
						p.Age = ""
					}
				}
				if flags.Changed("age") {
					p.Age = in.Age
				}
				if flags.Changed("gender") {
					p.Gender = profile.Gender(gender)
				}
				if flags.Changed("workout-level") {
					p.WorkoutLevel = profile.WorkoutLevel(workoutLevel)
				}
				if flags.Changed("goal") {
					p.FitnessGoal = profile.FitnessGoal(goal)
				}

				saved, err := a.profiles.Save(ctx, p)
				if err != nil {
					return storageFailed("save profile", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Profile saved for %s.\n", saved.Name)
				return nil
			})
		},
	}
	setCmd.Flags().StringVar(&in.Name, "name", "", "your name")
	setCmd.Flags().StringVar(&in.Height, "height", "", "height, in --height-unit")
	setCmd.Flags().StringVar(&heightUnit, "height-unit", "cm", "height unit [cm | ft]")
	setCmd.Flags().StringVar(&in.Weight, "weight", "", "weight, in --weight-unit")
	setCmd.Flags().StringVar(&weightUnit, "weight-unit", "kg", "weight unit [kg | lbs]")
	setCmd.Flags().StringVar(&in.Age, "age", "", "age in years")
	setCmd.Flags().StringVar(&in.Birthday, "birthday", "", "birthday (YYYY-MM-DD), used for age when --age is not set")
	setCmd.Flags().StringVar(&gender, "gender", "", "gender [male | female | other]")
	setCmd.Flags().StringVar(&workoutLevel, "workout-level", "", "workouts per week [1-2 | 3-4 | 5-6] or activity [sedentary | low_active | active | very_active]")
	setCmd.Flags().StringVar(&goal, "goal", "", "fitness goal [lose_weight | gain_weight | maintain | build_muscle]")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				p, err := a.profiles.Get(ctx)
				if err != nil {
					return storageFailed("load profile", err)
				}
				if p == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No profile yet, create one with: fitdiet profile set")
					return nil
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Name:          %s\n", p.Name)
				fmt.Fprintf(out, "Age:           %s\n", p.Age)
				if p.Birthday != "" {
					fmt.Fprintf(out, "Birthday:      %s\n", p.Birthday)
				}
				if p.Gender != "" {
					fmt.Fprintf(out, "Gender:        %s\n", p.Gender)
				}
				fmt.Fprintf(out, "Height:        %s %s\n", p.Height, p.HeightUnit)
				fmt.Fprintf(out, "Weight:        %s %s\n", p.Weight, p.WeightUnit)
				fmt.Fprintf(out, "Workout level: %s\n", p.WorkoutLevel.Label())
				fmt.Fprintf(out, "Fitness goal:  %s\n", p.FitnessGoal.Label())
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				if err := a.profiles.Clear(ctx); err != nil {
					return storageFailed("clear profile", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Profile cleared.")
				return nil
			})
		},
	}

	profileCmd.AddCommand(setCmd, showCmd, clearCmd)
	return profileCmd
}

func newBMICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "bmi",
		Short: "Show your BMI from the saved profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				p, err := a.profiles.Get(ctx)
				if err != nil {
					return storageFailed("load profile", err)
				}
				bmi, ok := nutrition.BMIFromProfile(p)
				class := nutrition.ClassifyBMI(bmi)
				out := cmd.OutOrStdout()
				if !ok {
					fmt.Fprintf(out, "BMI: %s\n", nutrition.NotAvailable)
				} else {
					fmt.Fprintf(out, "BMI: %.1f\n", bmi)
				}
				fmt.Fprintf(out, "Category: %s\n", class.Category)
				fmt.Fprintf(out, "Risk of comorbidities: %s\n", class.Risk)
				return nil
			})
		},
	}
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/2beens/fitdiet/internal/dietplan"

	"github.com/spf13/cobra"
)

func newDietCmd(opts *rootOptions) *cobra.Command {
	dietCmd := &cobra.Command{
		Use:   "diet",
		Short: "Generate and manage diet plans",
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a new diet plan from your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				svc, err := a.dietPlanService()
				if err != nil {
					return err
				}
				plan, err := svc.Generate(ctx)
				if err != nil {
					if isPlain(err) {
						return err
					}
					return &userError{Msg: "Failed to generate diet plan. Please try again.", Err: err}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s created and selected (%s).\n\n", plan.Name, plan.ID)
				printPlan(cmd.OutOrStdout(), plan)
				return nil
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved diet plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				plans := a.plans.List()
				out := cmd.OutOrStdout()
				if len(plans) == 0 {
					fmt.Fprintln(out, "No diet plans yet, create one with: fitdiet diet generate")
					return nil
				}

				var selectedID string
				if sel := a.plans.Selected(); sel != nil {
					selectedID = sel.ID
				}
				for i, p := range plans {
					marker := " "
					if p.ID == selectedID {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s  %s  %s\n", marker, p.ID, p.Name, p.CreatedAt.In(a.cfg.Location()).Format("2006-01-02"))
					if p.IsExpanded {
						printPlan(&indented{w: out}, &plans[i])
					}
				}
				fmt.Fprintf(out, "\n%d/%d plans saved.\n", len(plans), dietplan.MaxPlans)
				return nil
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a diet plan, the selected one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				var plan *dietplan.DietPlan
				if len(args) == 0 {
					if plan = a.plans.Selected(); plan == nil {
						return dietplan.ErrPlanNotFound
					}
				} else {
					id, err := resolvePlanID(a.plans, args[0])
					if err != nil {
						return err
					}
					for _, p := range a.plans.List() {
						if p.ID == id {
							plan = &p
							break
						}
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n\n", plan.Name, plan.ID)
				printPlan(cmd.OutOrStdout(), plan)
				return nil
			})
		},
	}

	selectCmd := &cobra.Command{
		Use:   "select <id>",
		Short: "Select a diet plan for this session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				id, err := resolvePlanID(a.plans, args[0])
				if err != nil {
					return err
				}
				if err := a.plans.Select(id); err != nil {
					return err
				}
				plan := a.plans.Selected()
				fmt.Fprintf(cmd.OutOrStdout(), "%s selected.\n\n", plan.Name)
				printPlan(cmd.OutOrStdout(), plan)
				return nil
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Expand or collapse a plan in the list view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				id, err := resolvePlanID(a.plans, args[0])
				if err != nil {
					return err
				}
				plan, err := a.plans.ToggleExpanded(ctx, id)
				if err != nil {
					return storageFailed("update diet plan", err)
				}
				state := "collapsed"
				if plan.IsExpanded {
					state = "expanded"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s.\n", plan.Name, state)
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a diet plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, a *app) error {
				id, err := resolvePlanID(a.plans, args[0])
				if err != nil {
					return err
				}
				if err := a.plans.Remove(ctx, id); err != nil {
					return storageFailed("delete diet plan", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Diet plan %s deleted.\n", id)
				return nil
			})
		},
	}

	dietCmd.AddCommand(generateCmd, listCmd, showCmd, selectCmd, toggleCmd, deleteCmd)
	return dietCmd
}

func resolvePlanID(plans *dietplan.Store, ref string) (string, error) {
	list := plans.List()
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ID)
	}
	return resolveID(ids, ref, dietplan.ErrPlanNotFound)
}

func printPlan(w io.Writer, p *dietplan.DietPlan) {
	fmt.Fprintf(w, "Breakfast: %s\n", p.Breakfast)
	fmt.Fprintf(w, "Lunch:     %s\n", p.Lunch)
	fmt.Fprintf(w, "Dinner:    %s\n", p.Dinner)
	fmt.Fprintf(w, "Snacks:    %s\n", p.Snacks)
	if len(p.Tips) > 0 {
		fmt.Fprintln(w, "Tips:")
		for _, tip := range p.Tips {
			fmt.Fprintf(w, "  - %s\n", tip)
		}
	}
}

// indented prefixes every line written through it with four spaces,
// including lines split across several Write calls.
type indented struct {
	w       io.Writer
	midLine bool
}

func (i *indented) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		if !i.midLine {
			if _, err := io.WriteString(i.w, "    "); err != nil {
				return written, err
			}
			i.midLine = true
		}

		line := p
		if idx := bytes.IndexByte(p, '\n'); idx >= 0 {
			line = p[:idx+1]
		}
		n, err := i.w.Write(line)
		written += n
		if err != nil {
			return written, err
		}
		if line[len(line)-1] == '\n' {
			i.midLine = false
		}
		p = p[len(line):]
	}
	return written, nil
}

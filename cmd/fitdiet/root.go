package main

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	env        string
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "fitdiet",
		Short:         "fitdiet tracks meals, workouts and diet plans from your terminal",
		Long:          "fitdiet keeps a food and workout log, sums up your day against a calorie target and generates Indian diet plans for your profile.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")

	rootCmd.AddCommand(
		newProfileCmd(opts),
		newBMICmd(opts),
		newFoodCmd(opts),
		newWorkoutCmd(opts),
		newTodayCmd(opts),
		newDietCmd(opts),
		newCatalogCmd(),
		newBackupCmd(opts),
	)

	return rootCmd
}

// run opens the app for one command, records the run metrics and closes it.
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, o.env, o.configPath)
	if err != nil {
		return userFacing(err)
	}

	start := time.Now()
	runErr := fn(ctx, a)

	status := "ok"
	if runErr != nil {
		status = "error"
		log.Errorf("%s: %s", cmd.CommandPath(), errorDetail(runErr))
	}
	a.metricsManager.HistCommandDuration.WithLabelValues(cmd.CommandPath(), status).Observe(time.Since(start).Seconds())
	a.metricsManager.GaugeLastRunUnixTime.SetToCurrentTime()

	if closeErr := a.close(context.WithoutCancel(ctx)); closeErr != nil {
		log.Errorf("close: %s", closeErr)
	}

	return userFacing(runErr)
}

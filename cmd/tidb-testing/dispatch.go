package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lilinghai/tidb-testing/core/models"
)

var (
	dispatchParams []string
	dispatchForce  bool
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <job>",
	Short: "Trigger a CI build unless an identical one was already dispatched",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, err := models.ParseJob(args[0])
		if err != nil {
			return fmt.Errorf("%w (known jobs: %s)", err, jobNames())
		}

		params := make(map[string]string, len(dispatchParams))
		for _, p := range dispatchParams {
			k, v, ok := strings.Cut(p, "=")
			if !ok || k == "" {
				return fmt.Errorf("bad --param %q, want key=value", p)
			}
			params[k] = v
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		rec, err := app.engine.Dispatch(cmd.Context(), job, params, dispatchForce)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s %s\n", rec.Job, rec.Fingerprint, rec.BuildURL)
		return nil
	},
}

func init() {
	dispatchCmd.Flags().StringArrayVar(&dispatchParams, "param", nil, "build parameter as key=value, repeatable")
	dispatchCmd.Flags().BoolVar(&dispatchForce, "force", false, "dispatch even when an identical build exists")
}

func jobNames() string {
	jobs := models.Jobs()
	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = string(j)
	}
	return strings.Join(names, ", ")
}

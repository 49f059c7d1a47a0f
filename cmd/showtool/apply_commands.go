package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"showtool/internal/logging"
	"showtool/internal/preflight"
	"showtool/internal/rename"
	"showtool/internal/services"
)

func renderPlan(out io.Writer, plan rename.Plan) {
	rows := make([][]string, 0, len(plan.Steps))
	changed := 0
	for i, step := range plan.Steps {
		action := "rename"
		if step.Unchanged {
			action = "keep"
		} else {
			changed++
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			filepath.Base(step.Original),
			filepath.Base(step.Final),
			action,
		})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		headers: []string{"#", "Current", "New", "Action"},
		aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
		rows:    rows,
		footer:  []string{"", "", fmt.Sprintf("%d to rename", changed), ""},
	}))
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var flags collectionFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plan [path...]",
		Short: "Preview the renames apply would perform",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.openWorkspace(cmd.Context(), args, flags.placeholders)
			if err != nil {
				return err
			}
			defer ws.close()

			plan, err := ws.session.Preview()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, plan.Steps)
			}
			renderPlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output steps as JSON")
	return cmd
}

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var flags collectionFlags

	cmd := &cobra.Command{
		Use:   "apply [path...]",
		Short: "Rename files to their canonical S01E02 names",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.openWorkspace(services.WithOperation(cmd.Context(), "apply"), args, flags.placeholders)
			if err != nil {
				return err
			}
			defer ws.close()

			results := preflight.RunAll(ws.cfg, ws.session.Directories()...)
			if failed := preflight.Failed(results); len(failed) > 0 {
				return services.Wrap(services.ErrFilesystem, "cli", "preflight", preflight.Summary(results), nil)
			}

			result, err := ws.session.Commit(services.WithOperation(cmd.Context(), "apply"))
			if err != nil {
				var commitErr *rename.CommitError
				attrs := []logging.Attr{
					logging.String("kind", services.Kind(err)),
					logging.Error(err),
				}
				if errors.As(err, &commitErr) {
					reportCommitFailure(cmd.ErrOrStderr(), commitErr)
					attrs = append(attrs,
						logging.Strings("moved", commitErr.Moved),
						logging.Strings("not_moved", commitErr.NotMoved),
					)
				}
				logging.ErrorWithContext(ws.logger, "apply failed", "apply_failed", attrs...)
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderStatusLine("Renamed", statusOK, fmt.Sprintf("%d file(s)", result.Renamed), colorize))
			fmt.Fprintln(out, renderStatusLine("Unchanged", statusInfo, fmt.Sprintf("%d file(s)", result.Unchanged), colorize))
			if result.SessionID != "" && result.Renamed > 0 {
				fmt.Fprintln(out, renderStatusLine("Session", statusInfo, result.SessionID, colorize))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func reportCommitFailure(out io.Writer, err *rename.CommitError) {
	colorize := shouldColorize(out)
	fmt.Fprintln(out, renderStatusLine("Commit", statusError, fmt.Sprintf("failed during %s", err.Phase), colorize))
	switch {
	case err.RollbackErr != nil:
		fmt.Fprintln(out, renderStatusLine("Rollback", statusError, err.RollbackErr.Error(), colorize))
		fmt.Fprintln(out, renderStatusLine("Recover", statusWarn, "showtool recover "+err.SessionID, colorize))
	case err.RolledBack:
		fmt.Fprintln(out, renderStatusLine("Rollback", statusOK, "all files restored", colorize))
	}
	for _, path := range err.Moved {
		fmt.Fprintln(out, renderStatusLine("Moved", statusWarn, path, colorize))
	}
	for _, path := range err.NotMoved {
		fmt.Fprintln(out, renderStatusLine("Not moved", statusInfo, path, colorize))
	}
}

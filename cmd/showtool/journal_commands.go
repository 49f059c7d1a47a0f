package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"showtool/internal/journal"
	"showtool/internal/logs"
	"showtool/internal/services"
)

func newRecoverCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recover [session-id]",
		Short: "Restore files left at temporary names by an interrupted apply",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			var sessions []*journal.Session
			if len(args) == 1 {
				session, err := store.GetSession(cmd.Context(), args[0])
				if err != nil {
					return services.Wrap(services.ErrNotFound, "cli", "recover", args[0], err)
				}
				if !session.NeedsRecovery() {
					return services.Wrap(services.ErrValidation, "cli", "recover", fmt.Sprintf("session %s is %s and has nothing to restore", session.ID, session.Status), nil)
				}
				sessions = append(sessions, session)
			} else {
				sessions, err = store.PendingRecovery(cmd.Context())
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if len(sessions) == 0 {
				fmt.Fprintln(out, renderStatusLine("Recover", statusOK, "nothing to recover", colorize))
				return nil
			}

			exec, err := ctx.newExecutor(logger, store)
			if err != nil {
				return err
			}
			var failures int
			for _, session := range sessions {
				states, err := exec.Restore(cmd.Context(), session.ID, session.Plan().Steps, session.States())
				if err != nil {
					failures++
					fmt.Fprintln(out, renderStatusLine(session.ID, statusError, err.Error(), colorize))
					continue
				}
				restored := 0
				for i, state := range states {
					if state != session.Steps[i].State {
						restored++
					}
				}
				fmt.Fprintln(out, renderStatusLine(session.ID, statusOK, fmt.Sprintf("%d step(s) restored", restored), colorize))
			}
			if failures > 0 {
				return services.Wrap(services.ErrFilesystem, "cli", "recover", fmt.Sprintf("%d session(s) could not be restored", failures), nil)
			}
			return nil
		},
	}
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var prune int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded apply sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			if cmd.Flags().Changed("prune") {
				removed, err := store.Prune(cmd.Context(), prune)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d session(s)\n", removed)
			}

			sessions, err := store.ListSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, sessions)
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions recorded")
				return nil
			}
			rows := make([][]string, 0, len(sessions))
			for _, session := range sessions {
				moved := 0
				for _, step := range session.Steps {
					if !step.Step.Unchanged {
						moved++
					}
				}
				rows = append(rows, []string{
					session.ID,
					session.CreatedAt.Local().Format(time.DateTime),
					string(session.Status),
					strconv.Itoa(moved),
					yesNo(session.NeedsRecovery()),
					session.Directory,
				})
			}
			fmt.Fprintln(out, renderTable(tableSpec{
				headers: []string{"Session", "Started", "Status", "Renames", "Recover", "Directory"},
				aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				rows:    rows,
			}))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of sessions to show (0 for all)")
	cmd.Flags().IntVar(&prune, "prune", 0, "Delete all but the newest N finished sessions before listing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output sessions as JSON")
	return cmd
}

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var sessionID string
	var follow bool

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the showtool log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return logs.Tail(cmd.Context(), cfg.LogPath(), logs.TailOptions{
				Limit:     lines,
				SessionID: sessionID,
				Follow:    follow,
			}, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&sessionID, "session", "", "Only show lines for one apply session")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines")
	return cmd
}

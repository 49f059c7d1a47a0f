package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"showtool/internal/config"
	"showtool/internal/services"
	"showtool/internal/session"
)

type collectionFlags struct {
	placeholders []string
}

func (f *collectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.placeholders, "placeholder", nil, "Reserve a slot for a missing file as SEASON:EPISODE (repeatable)")
}

type rowJSON struct {
	Row           int    `json:"row"`
	Path          string `json:"path,omitempty"`
	Title         string `json:"title"`
	Season        *int   `json:"season"`
	ParsedEpisode *int   `json:"parsed_episode"`
	Derived       int    `json:"derived"`
	Manual        *int   `json:"manual,omitempty"`
	Target        string `json:"target,omitempty"`
	Placeholder   bool   `json:"placeholder,omitempty"`
}

func optionalNumber(n int, present bool) *int {
	if !present {
		return nil
	}
	return &n
}

func toRowJSON(row session.Row) rowJSON {
	return rowJSON{
		Row:           row.Index + 1,
		Path:          row.Path,
		Title:         row.Title,
		Season:        optionalNumber(row.Season, row.SeasonText() != ""),
		ParsedEpisode: optionalNumber(row.ParsedEpisode, row.EpisodeText() != ""),
		Derived:       row.Derived,
		Manual:        optionalNumber(row.Manual, row.HasManual),
		Target:        row.Canonical,
		Placeholder:   row.Placeholder,
	}
}

func renderRows(out io.Writer, rows []session.Row) {
	tableRows := make([][]string, 0, len(rows))
	pinned := 0
	for _, row := range rows {
		if row.HasManual {
			pinned++
		}
		tableRows = append(tableRows, []string{
			strconv.Itoa(row.Index + 1),
			row.DisplayName(),
			row.Title,
			row.SeasonText(),
			row.EpisodeText(),
			row.DerivedText(),
			row.ManualText(),
			row.Canonical,
		})
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		headers: []string{"#", "Filename", "Title", "Season", "Episode", "Fixed", "Manual", "Target"},
		aligns:  []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
		rows:    tableRows,
		footer:  []string{"", fmt.Sprintf("%d file(s)", len(rows)), "", "", "", "", fmt.Sprintf("%d pinned", pinned), ""},
	}))
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var flags collectionFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [path...]",
		Short: "Show the episode order for files or directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.openWorkspace(cmd.Context(), args, flags.placeholders)
			if err != nil {
				return err
			}
			defer ws.close()

			rows := ws.session.Rows()
			if asJSON {
				payload := make([]rowJSON, 0, len(rows))
				for _, row := range rows {
					payload = append(payload, toRowJSON(row))
				}
				return writeJSON(cmd, payload)
			}
			renderRows(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output rows as JSON")
	return cmd
}

// resolveRow finds the row for a file argument, or a 1-based row number.
func resolveRow(sess *session.Session, arg string) (int, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
		if n < 1 || n > sess.Len() {
			return 0, services.Wrap(services.ErrValidation, "cli", "row", fmt.Sprintf("row %d out of range 1..%d", n, sess.Len()), nil)
		}
		return n - 1, nil
	}
	expanded, err := config.ExpandPath(arg)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "cli", "row", arg, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "cli", "row", arg, err)
	}
	row, ok := sess.Find(abs)
	if !ok {
		return 0, services.Wrap(services.ErrNotFound, "cli", "row", fmt.Sprintf("%s is not part of the collection", abs), nil)
	}
	return row, nil
}

// scopeFor returns the collection inputs for an edit: explicit --in values,
// or the directory of the edited file.
func scopeFor(target string, in []string) []string {
	if len(in) > 0 {
		return in
	}
	if _, err := strconv.Atoi(strings.TrimSpace(target)); err == nil {
		return nil
	}
	return []string{filepath.Dir(target)}
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	var flags collectionFlags
	var in []string

	cmd := &cobra.Command{
		Use:   "set <file|row> <episode>",
		Short: "Pin a file to an episode number",
		Long: "Pin a file to an episode number. The pin is stored in the journal and\n" +
			"applied every time the file's collection is listed, until it is cleared\n" +
			"or the collection is applied.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := ctx.openWorkspace(cmd.Context(), scopeFor(args[0], in), flags.placeholders)
			if err != nil {
				return err
			}
			defer ws.close()

			row, err := resolveRow(ws.session, args[0])
			if err != nil {
				return err
			}
			if err := ws.session.SetManualEpisodeText(cmd.Context(), row, args[1]); err != nil {
				return err
			}
			renderRows(cmd.OutOrStdout(), ws.session.Rows())
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&in, "in", nil, "Files or directories forming the collection (default: the file's directory)")
	return cmd
}

func newClearCommand(ctx *commandContext) *cobra.Command {
	var flags collectionFlags
	var in []string
	var all bool

	cmd := &cobra.Command{
		Use:   "clear [file|row]",
		Short: "Remove an episode pin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				return clearAll(cmd, ctx, in)
			}
			if len(args) == 0 {
				return services.Wrap(services.ErrValidation, "cli", "clear", "a file or row is required (or use --all)", nil)
			}
			ws, err := ctx.openWorkspace(cmd.Context(), scopeFor(args[0], in), flags.placeholders)
			if err != nil {
				return err
			}
			defer ws.close()

			row, err := resolveRow(ws.session, args[0])
			if err != nil {
				return err
			}
			if err := ws.session.ClearManualEpisode(cmd.Context(), row); err != nil {
				return err
			}
			renderRows(cmd.OutOrStdout(), ws.session.Rows())
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&in, "in", nil, "Files or directories forming the collection (default: the file's directory)")
	cmd.Flags().BoolVar(&all, "all", false, "Remove every pin stored for the --in directories (default: current directory)")
	return cmd
}

func clearAll(cmd *cobra.Command, ctx *commandContext, dirs []string) error {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}
	store, err := ctx.openJournal()
	if err != nil {
		return err
	}
	defer store.Close()

	var total int64
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return services.Wrap(services.ErrValidation, "cli", "clear", dir, err)
		}
		n, err := store.ClearDirectory(cmd.Context(), abs)
		if err != nil {
			return err
		}
		total += n
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d pin(s)\n", total)
	return nil
}

package session

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"showtool/internal/episode"
	"showtool/internal/journal"
	"showtool/internal/logging"
	"showtool/internal/rename"
	"showtool/internal/services"
)

// OverrideStore persists manual episode pins keyed by file path.
type OverrideStore interface {
	Overrides(ctx context.Context, dir string) (map[string]journal.Override, error)
	SetOverride(ctx context.Context, path string, episode int) error
	ClearOverride(ctx context.Context, path string) error
	ClearDirectory(ctx context.Context, dir string) (int64, error)
}

// Options configures a Session.
type Options struct {
	Ordering    episode.LessFunc
	Store       OverrideStore
	Executor    *rename.Executor
	PlanOptions rename.PlanOptions
	Logger      *slog.Logger
}

// Session owns the current collection. It is not safe for concurrent use.
type Session struct {
	id         string
	collection episode.Collection
	ordering   episode.LessFunc
	store      OverrideStore
	executor   *rename.Executor
	planOpts   rename.PlanOptions
	logger     *slog.Logger
}

// Open builds a session from file paths and restores stored pins.
func Open(ctx context.Context, paths []string, opts Options) (*Session, error) {
	s := &Session{
		id:       uuid.NewString(),
		ordering: opts.Ordering,
		store:    opts.Store,
		executor: opts.Executor,
		planOpts: opts.PlanOptions,
	}
	if s.ordering == nil {
		s.ordering = episode.Less
	}
	s.logger = logging.WithContext(services.WithRequestID(ctx, s.id), logging.NewComponentLogger(opts.Logger, "session"))
	if s.executor == nil {
		s.executor = rename.NewExecutor(rename.WithLogger(opts.Logger))
	}

	collection, err := episode.FromPaths(paths, episode.WithOrdering(s.ordering))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "session", "open", "build collection", err)
	}
	s.collection = collection
	s.logParseMisses()

	if err := s.restoreOverrides(ctx); err != nil {
		return nil, err
	}
	s.logger.Debug("session opened", logging.Int(logging.FieldEpisodeCount, s.collection.Len()))
	return s, nil
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Collection returns the current collection value.
func (s *Session) Collection() episode.Collection {
	return s.collection
}

// Len returns the number of rows.
func (s *Session) Len() int {
	return s.collection.Len()
}

// Row returns the display tuple for row i.
func (s *Session) Row(i int) (Row, bool) {
	entry, ok := s.collection.At(i)
	if !ok {
		return Row{}, false
	}
	return newRow(i, entry), true
}

// Rows returns every row in display order.
func (s *Session) Rows() []Row {
	entries := s.collection.Entries()
	rows := make([]Row, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, newRow(i, entry))
	}
	return rows
}

// Find returns the row backed by path.
func (s *Session) Find(path string) (int, bool) {
	return s.collection.Find(filepath.Clean(path))
}

// ManualEpisode returns the pin of row i, if any.
func (s *Session) ManualEpisode(i int) (int, bool) {
	entry, ok := s.collection.At(i)
	if !ok {
		return 0, false
	}
	return entry.ManualEpisode()
}

// SetManualEpisode pins row i to value. A rejected value leaves the session
// unchanged and returns an error wrapping episode.ErrInvalidOverride.
func (s *Session) SetManualEpisode(ctx context.Context, i, value int) error {
	next, err := s.collection.SetManualEpisode(i, value)
	if err != nil {
		return services.Wrap(services.ErrValidation, "session", "set episode", "", err)
	}
	return s.publish(ctx, i, next)
}

// SetManualEpisodeText pins row i using raw user input.
func (s *Session) SetManualEpisodeText(ctx context.Context, i int, text string) error {
	next, err := s.collection.SetManualEpisodeText(i, text)
	if err != nil {
		return services.Wrap(services.ErrValidation, "session", "set episode", "", err)
	}
	return s.publish(ctx, i, next)
}

// ClearManualEpisode removes the pin of row i.
func (s *Session) ClearManualEpisode(ctx context.Context, i int) error {
	next, err := s.collection.ClearManualEpisode(i)
	if err != nil {
		return services.Wrap(services.ErrValidation, "session", "clear episode", "", err)
	}
	return s.publish(ctx, i, next)
}

// AddPlaceholder inserts a row without a backing file. Placeholders are not
// persisted.
func (s *Session) AddPlaceholder(season, ep int) error {
	next, err := s.collection.AddPlaceholder(season, ep)
	if err != nil {
		return services.Wrap(services.ErrValidation, "session", "add placeholder", "", err)
	}
	s.collection = next
	return nil
}

// publish persists the pin of the entry edited at row and swaps in next. The
// store is written first so a failed write leaves the session unchanged.
func (s *Session) publish(ctx context.Context, row int, next episode.Collection) error {
	before, _ := s.collection.At(row)
	if before.IsPlaceholder() {
		s.collection = next
		return nil
	}

	var (
		pinned int
		ok     bool
	)
	if idx, found := next.Find(before.Path); found {
		after, _ := next.At(idx)
		pinned, ok = after.ManualEpisode()
	}
	if s.store != nil {
		var err error
		if ok {
			err = s.store.SetOverride(ctx, before.Path, pinned)
		} else {
			err = s.store.ClearOverride(ctx, before.Path)
		}
		if err != nil {
			return services.Wrap(services.ErrFilesystem, "session", "persist override", before.Filename(), err)
		}
	}
	s.collection = next

	if ok {
		s.logger.Info("manual episode set",
			logging.String("file", before.Filename()),
			logging.Int("episode", pinned),
		)
	} else {
		s.logger.Info("manual episode cleared", logging.String("file", before.Filename()))
	}
	return nil
}

// Preview computes the rename plan for the current collection without
// touching the filesystem.
func (s *Session) Preview() (rename.Plan, error) {
	plan, err := rename.BuildPlan(s.collection.Entries(), s.planOpts)
	if err != nil {
		marker := services.ErrValidation
		if errors.Is(err, rename.ErrTargetConflict) {
			marker = services.ErrConflict
		}
		return rename.Plan{}, services.Wrap(marker, "session", "plan", "", err)
	}
	return plan, nil
}

// Commit renames every file to its canonical name. On success the collection
// is rebuilt from the new paths and stored pins for the affected directories
// are cleared.
func (s *Session) Commit(ctx context.Context) (rename.Result, error) {
	ctx = services.WithOperation(ctx, "commit")
	plan, err := s.Preview()
	if err != nil {
		return rename.Result{}, err
	}

	result, err := s.executor.Execute(ctx, plan)
	if err != nil {
		return result, classifyCommitError(err)
	}

	var placeholders []episode.Entry
	for _, entry := range s.collection.Entries() {
		if entry.IsPlaceholder() {
			placeholders = append(placeholders, entry.WithoutManualEpisode())
		}
	}
	entries := make([]episode.Entry, 0, len(plan.Steps)+len(placeholders))
	for _, path := range plan.FinalPaths() {
		entries = append(entries, episode.NewEntry(path))
	}
	entries = append(entries, placeholders...)

	rebuilt, err := s.collection.Replace(entries)
	if err != nil {
		return result, services.Wrap(services.ErrValidation, "session", "rebuild", "", err)
	}
	s.collection = rebuilt

	if s.store != nil {
		for _, dir := range directories(plan) {
			if _, err := s.store.ClearDirectory(ctx, dir); err != nil {
				logging.WarnWithContext(s.logger, "failed to clear stored overrides", "override_clear_failed",
					logging.String("directory", dir),
					logging.Error(err),
					logging.String(logging.FieldImpact, "stale pins may be reapplied on next run"),
					logging.String(logging.FieldErrorHint, "run showtool clear --all in the directory"),
				)
			}
		}
	}
	return result, nil
}

func classifyCommitError(err error) error {
	switch {
	case errors.Is(err, rename.ErrBusy):
		return services.Wrap(services.ErrBusy, "session", "commit", "", err)
	case errors.Is(err, rename.ErrTargetExists):
		return services.Wrap(services.ErrConflict, "session", "commit", "", err)
	case errors.Is(err, rename.ErrSourceMissing):
		return services.Wrap(services.ErrNotFound, "session", "commit", "", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return services.Wrap(services.ErrFilesystem, "session", "commit", "", err)
	}
}

func directories(plan rename.Plan) []string {
	set := make(map[string]struct{})
	for _, step := range plan.Steps {
		set[filepath.Dir(step.Original)] = struct{}{}
	}
	dirs := make([]string, 0, len(set))
	for dir := range set {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// Directories returns the distinct directories holding the session's files.
func (s *Session) Directories() []string {
	set := make(map[string]struct{})
	for _, entry := range s.collection.Entries() {
		if entry.IsPlaceholder() {
			continue
		}
		set[entry.Dir()] = struct{}{}
	}
	dirs := make([]string, 0, len(set))
	for dir := range set {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

func (s *Session) logParseMisses() {
	for _, entry := range s.collection.Entries() {
		for _, miss := range entry.ParseMisses {
			s.logger.Debug("identifier not numeric",
				logging.String(logging.FieldEventType, "parse_miss"),
				logging.String("file", entry.Filename()),
				logging.String("marker", miss),
			)
		}
		if entry.Season == episode.Unknown || entry.ParsedEpisode == episode.Unknown {
			s.logger.Debug("identifier missing",
				logging.String(logging.FieldEventType, "parse_miss"),
				logging.String("file", entry.Filename()),
				logging.Int("season", entry.Season),
				logging.Int("episode", entry.ParsedEpisode),
			)
		}
	}
}

// restoreOverrides reapplies stored pins in ascending episode order. Pins that
// do not fit the collection (for example when only some files of a directory
// were opened) are skipped but kept in the store.
func (s *Session) restoreOverrides(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	var stored []journal.Override
	for _, dir := range s.Directories() {
		overrides, err := s.store.Overrides(ctx, dir)
		if err != nil {
			return services.Wrap(services.ErrFilesystem, "session", "load overrides", dir, err)
		}
		for _, o := range overrides {
			stored = append(stored, o)
		}
	}
	sort.Slice(stored, func(i, j int) bool {
		if stored[i].Episode != stored[j].Episode {
			return stored[i].Episode < stored[j].Episode
		}
		return stored[i].UpdatedAt.After(stored[j].UpdatedAt)
	})

	for _, o := range stored {
		path := filepath.Join(o.Directory, o.Filename)
		row, ok := s.collection.Find(path)
		if !ok {
			continue
		}
		next, err := s.collection.SetManualEpisode(row, o.Episode)
		if err != nil {
			logging.WarnWithContext(s.logger, "dropping stored manual episode", "override_stale",
				logging.String("file", o.Filename),
				logging.Int("episode", o.Episode),
				logging.Error(err),
				logging.String(logging.FieldImpact, "file falls back to its parsed position"),
				logging.String(logging.FieldErrorHint, "clear it with showtool clear or open the whole directory"),
			)
			continue
		}
		s.collection = next
	}
	return nil
}

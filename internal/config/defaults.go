package config

const (
	defaultStateDir           = "~/.local/share/showtool"
	defaultLogDir             = "~/.local/share/showtool/logs"
	defaultOrderingRelation   = OrderingLiteral
	defaultSuffixLength       = 6
	defaultRollbackOnFailure  = true
	defaultLockTimeoutSeconds = 0
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Ordering relation names accepted by ordering.relation.
const (
	OrderingLiteral     = "literal"
	OrderingSeasonFirst = "season_first"
)

// Suffix length bounds for rename.suffix_length.
const (
	MinSuffixLength = 4
	MaxSuffixLength = 32
)

func defaultVideoExtensions() []string {
	return []string{".mkv", ".mp4", ".m4v", ".avi", ".mov", ".webm", ".ts", ".wmv"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Library: Library{
			VideoExtensions: defaultVideoExtensions(),
		},
		Ordering: Ordering{
			Relation: defaultOrderingRelation,
		},
		Rename: Rename{
			SuffixLength:       defaultSuffixLength,
			RollbackOnFailure:  defaultRollbackOnFailure,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

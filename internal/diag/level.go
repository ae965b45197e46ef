package diag

// Level defines the importance of a diagnostic.
type Level uint8

const (
	// LevelHelp is a suggestion attached to another diagnostic.
	LevelHelp Level = iota
	// LevelNote adds context; usually a child of an error.
	LevelNote
	// LevelWarning is for warning diagnostics.
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelHelp:
		return "HELP"
	case LevelNote:
		return "NOTE"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label returns the lower-case form used by renderers ("error", "note", ...).
func (l Level) Label() string {
	switch l {
	case LevelHelp:
		return "help"
	case LevelNote:
		return "note"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return "unknown"
}

package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// ScoringMode represents how type weights take part in a developer score.
	ScoringMode string

	// DatabaseBackend represents the database backend for the ledger and caches.
	DatabaseBackend string

	// FileType is the coarse classification of a repository path.
	FileType string

	// WeightKind tells whether a weight belongs to a category or a type.
	WeightKind string
)

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All scoring modes supported.
const (
	FlatMode     ScoringMode = "flat" // default
	WeightedMode ScoringMode = "weighted"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All file types known to the classifier.
const (
	SourceFile      FileType = "source"
	BinaryFile      FileType = "binary"
	DocFile         FileType = "doc"
	TranslationFile FileType = "translation"
	OtherFile       FileType = "other"
)

// Weight kinds.
const (
	CategoryWeight WeightKind = "category"
	TypeWeight     WeightKind = "type"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidScoringModes lists all valid scoring modes.
var ValidScoringModes = map[ScoringMode]struct{}{
	FlatMode:     {},
	WeightedMode: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

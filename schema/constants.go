package schema

// Custom string types for type safety.
type (
	// Channel represents the package channel a scoring run targets.
	Channel string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for score history.
	DatabaseBackend string
)

// All channels supported.
const (
	ReleasedChannel Channel = "released" // default
	PreviewChannel  Channel = "preview"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// PartitionLayout is the date layout for history partition keys.
const PartitionLayout = "2006-01-02"

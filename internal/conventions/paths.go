package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default appforge data directory name (relative to home).
	DefaultDataDir = ".appforge"
	// DBFile is the SQLite database filename inside the data directory.
	DBFile = "appforge.db"
)

// DataDir returns the appforge data directory inside a home directory.
func DataDir(home string) string {
	return filepath.Join(home, DefaultDataDir)
}

// DBPath returns the default database path inside a home directory.
func DBPath(home string) string {
	return filepath.Join(DataDir(home), DBFile)
}

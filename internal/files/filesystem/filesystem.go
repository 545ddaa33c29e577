package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
// This provides compatibility with the fs.FS ecosystem while maintaining
// a stable local type for our abstraction layer.
type FileInfo = fs.FileInfo

// Provider abstracts the filesystem operations needed by file discovery.
// Implementations must be safe for concurrent use.
type Provider interface {
	// ReadDir reads the direct entries of the directory at the given path.
	// The order of entries is whatever the underlying listing produces;
	// callers that need determinism must sort.
	ReadDir(path string) ([]FileInfo, error)

	// ReadFile reads a specific file at the given path.
	ReadFile(path string) ([]byte, error)

	// Stat returns file information for the given path.
	Stat(path string) (FileInfo, error)
}

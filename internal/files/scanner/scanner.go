package scanner

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/LTangData/customer-info-analysis/internal/files/filesystem"
	"github.com/LTangData/customer-info-analysis/pkg/cia"
)

// Scanner discovers tabular files in the external-data directory.
// Safe for concurrent use as long as the provided fsProvider is thread-safe.
type Scanner struct {
	fsProvider filesystem.Provider
	logger     cia.Logger
}

// NewScanner creates a file scanner backed by the OS filesystem.
// Panics if logger is nil.
func NewScanner(logger cia.Logger) *Scanner {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Scanner{
		fsProvider: filesystem.NewOSFileSystem(),
		logger:     logger,
	}
}

// NewScannerWithFS creates a file scanner with a custom filesystem provider.
// This is primarily useful for testing with in-memory filesystems.
// Panics if logger or fsProvider is nil.
func NewScannerWithFS(logger cia.Logger, fsProvider filesystem.Provider) *Scanner {
	if logger == nil {
		panic("logger cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		fsProvider: fsProvider,
		logger:     logger,
	}
}

// ListFiles returns the full paths of all direct entries of dir whose name
// ends with ".<extension>", sorted lexicographically. Directory listings
// carry no inherent order, so results are sorted explicitly to make the
// processing order reproducible across runs.
//
// ListFiles never fails: a missing directory or a listing error degrades to
// an empty result with a diagnostic, as does a directory with no matches.
func (s *Scanner) ListFiles(dir, extension string) []string {
	entries, err := s.fsProvider.ReadDir(dir)
	if err != nil {
		s.logger.Warn("Folder %q does not exist or cannot be read: %v", dir, err)
		return nil
	}

	suffix := "." + strings.TrimPrefix(extension, ".")

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(entry.Name(), suffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	if len(paths) == 0 {
		s.logger.Warn("No files with the extension %q found in %q", suffix, dir)
		return nil
	}

	sort.Strings(paths)
	s.logger.Info("Found %d %q file(s) in %q", len(paths), suffix, dir)
	return paths
}

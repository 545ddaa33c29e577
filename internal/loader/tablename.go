package loader

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/LTangData/customer-info-analysis/internal/config"
)

// TableNameRule derives a database table name from a file path by stripping
// a trailing period suffix from the file stem. The source data follows the
// convention <table>_<period>.csv (e.g. orders_202401.csv -> orders), so the
// rule is a named, configurable pattern rather than a bare length constant.
type TableNameRule struct {
	suffix *regexp.Regexp
}

// NewTableNameRule creates a rule with the given suffix pattern.
// Panics if suffix is nil; use DefaultTableNameRule for the standard rule.
func NewTableNameRule(suffix *regexp.Regexp) TableNameRule {
	if suffix == nil {
		panic("suffix pattern cannot be nil")
	}
	return TableNameRule{suffix: suffix}
}

// DefaultTableNameRule strips a trailing underscore-plus-digits suffix.
func DefaultTableNameRule() TableNameRule {
	return TableNameRule{suffix: regexp.MustCompile(config.DefaultTableSuffixPattern)}
}

// Derive returns the table name for path. A stem that is empty after
// stripping (the whole name was a period suffix) is an error: loading such
// a file would target a table with no name, so it fails fast instead.
func (r TableNameRule) Derive(path string) (string, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	name := r.suffix.ReplaceAllString(stem, "")
	if name == "" {
		return "", fmt.Errorf("file %q yields an empty table name after stripping suffix %q",
			base, r.suffix.String())
	}
	return name, nil
}

package loader

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableNameRule(t *testing.T) {
	rule := DefaultTableNameRule()

	tests := []struct {
		path string
		want string
	}{
		{"orders_202401.csv", "orders"},
		{"users_202401.csv", "users"},
		{"/data/external/orders_202401.csv", "orders"},
		{"customer_info_20240115.csv", "customer_info"},
		// No period suffix: stem passes through unchanged
		{"customers.csv", "customers"},
		// Only the trailing suffix is stripped
		{"q1_2023_results_202401.csv", "q1_2023_results"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := rule.Derive(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveIsOrderIndependent(t *testing.T) {
	rule := DefaultTableNameRule()
	files := []string{"b_202401.csv", "a_202401.csv", "c_202401.csv"}

	// Deriving in any order yields the same name per file
	for i := range files {
		got, err := rule.Derive(files[i])
		require.NoError(t, err)
		assert.Equal(t, string(files[i][0]), got)
	}
}

func TestDerive_EmptyResultFailsFast(t *testing.T) {
	rule := DefaultTableNameRule()

	_, err := rule.Derive("_202401.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty table name")
}

func TestNewTableNameRule_CustomPattern(t *testing.T) {
	rule := NewTableNameRule(regexp.MustCompile(`-v[0-9]+$`))

	got, err := rule.Derive("inventory-v2.csv")
	require.NoError(t, err)
	assert.Equal(t, "inventory", got)
}

func TestNewTableNameRule_NilPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for nil pattern")
		}
	}()
	NewTableNameRule(nil)
}

package testinfra

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/LTangData/customer-info-analysis/internal/config"
)

var (
	testContainerOnce sync.Once
	testContainerCfg  config.DBConfig
	testContainerErr  error
)

func getOrStartTestContainer() (config.DBConfig, error) {
	testContainerOnce.Do(func() {
		ctx := context.Background()
		container, err := StartPostgres(ctx)
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerCfg, testContainerErr = parseConnString(container.ConnString)
	})
	return testContainerCfg, testContainerErr
}

func parseConnString(connStr string) (config.DBConfig, error) {
	parsed, err := pgx.ParseConfig(connStr)
	if err != nil {
		return config.DBConfig{}, err
	}
	return config.DBConfig{
		Host:     parsed.Host,
		Port:     int(parsed.Port),
		User:     parsed.User,
		Password: parsed.Password,
		Database: parsed.Database,
		SSLMode:  "disable",
	}, nil
}

// RequireDatabase returns connection parameters for a test database.
// Priority: CIA_TEST_CONN env var > auto-started testcontainer > skip test.
// Also skips in -short mode.
func RequireDatabase(t *testing.T) config.DBConfig {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	if connStr := os.Getenv("CIA_TEST_CONN"); connStr != "" {
		cfg, err := parseConnString(connStr)
		if err != nil {
			t.Fatalf("invalid CIA_TEST_CONN: %v", err)
		}
		return cfg
	}

	cfg, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("CIA_TEST_CONN not set and Docker unavailable: %v", err)
	}
	return cfg
}

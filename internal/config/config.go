// Package config resolves pipeline configuration from the environment and
// an optional cia.yaml project file.
//
// Credentials and connection parameters come exclusively from environment
// variables (no defaults for required values). The project file only carries
// non-secret settings: the data directory, the scanned file extension, and
// the table-name suffix pattern.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/LTangData/customer-info-analysis/pkg/cia"
)

// ErrConfigNotFound is returned when the project config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// Environment variable names. Database variables follow the libpq convention
// so standard PostgreSQL tooling and the loader agree on a single source.
const (
	EnvKaggleUsername = "KAGGLE_USERNAME"
	EnvKaggleKey      = "KAGGLE_KEY"
	EnvKaggleDataID   = "KAGGLE_DATA_ID"

	EnvDBHost     = "PGHOST"
	EnvDBPort     = "PGPORT"
	EnvDBUser     = "PGUSER"
	EnvDBPassword = "PGPASSWORD"
	EnvDBName     = "PGDATABASE"
	EnvDBSSLMode  = "PGSSLMODE"

	EnvDataDir = "CIA_DATA_DIR"
)

const (
	// ConfigFileName is the optional project configuration file.
	ConfigFileName = "cia.yaml"

	// DefaultDataDir is where fetched archives are extracted and where the
	// loader scans for tabular files. The sole hand-off contract between
	// the two stages.
	DefaultDataDir = "data/external"

	DefaultPort    = 5432
	DefaultSSLMode = "prefer"

	// DefaultTableSuffixPattern strips the trailing period suffix
	// (e.g. "_202401") from a file stem when deriving a table name.
	DefaultTableSuffixPattern = `_[0-9]+$`
)

// ProjectConfig holds optional, non-secret project settings from cia.yaml.
type ProjectConfig struct {
	DataDir            string `yaml:"data_dir,omitempty"`
	FileExtension      string `yaml:"file_extension,omitempty"`
	TableSuffixPattern string `yaml:"table_suffix_pattern,omitempty"`
}

// LoadProject reads cia.yaml from dir. A missing file is reported as
// ErrConfigNotFound; callers treat that as "use defaults".
func LoadProject(dir string) (*ProjectConfig, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}
	return &cfg, nil
}

// FetchConfig is the validated configuration for the fetch stage.
type FetchConfig struct {
	// Username and Key authenticate against the dataset-hosting API.
	Username string
	Key      string

	// DatasetID names the dataset archive to download.
	DatasetID string

	// DataDir is the extraction target directory.
	DataDir string
}

// FetchFromEnv builds a FetchConfig from the environment, validating all
// required values in a single pass. Missing values are joined into one
// error wrapping cia.ErrMissingConfig so the entry point fails fast with
// every problem listed at once.
func FetchFromEnv(project *ProjectConfig) (FetchConfig, error) {
	cfg := FetchConfig{
		Username:  os.Getenv(EnvKaggleUsername),
		Key:       os.Getenv(EnvKaggleKey),
		DatasetID: os.Getenv(EnvKaggleDataID),
		DataDir:   resolveDataDir(project),
	}

	var errs []error
	if cfg.Username == "" {
		errs = append(errs, fmt.Errorf("%s is required: %w", EnvKaggleUsername, cia.ErrMissingConfig))
	}
	if cfg.Key == "" {
		errs = append(errs, fmt.Errorf("%s is required: %w", EnvKaggleKey, cia.ErrMissingConfig))
	}
	if cfg.DatasetID == "" {
		errs = append(errs, fmt.Errorf("%s is required: %w", EnvKaggleDataID, cia.ErrMissingConfig))
	}

	if err := errors.Join(errs...); err != nil {
		return FetchConfig{}, err
	}
	return cfg, nil
}

// DBConfig holds the database connection parameters as named, typed fields.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// ConnString renders the config as a libpq key/value connection string
// understood by pgx.
func (c DBConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// LoadConfig is the validated configuration for the load stage.
type LoadConfig struct {
	DB DBConfig

	// DataDir is the directory scanned for tabular files.
	DataDir string

	// FileExtension selects which files in DataDir are loaded.
	FileExtension string

	// TableSuffix is the compiled rule for stripping the period suffix
	// from file stems when deriving table names.
	TableSuffix *regexp.Regexp
}

// LoadFromEnv builds a LoadConfig from the environment and the optional
// project config, validating all required values in a single pass.
func LoadFromEnv(project *ProjectConfig) (LoadConfig, error) {
	var errs []error

	db := DBConfig{
		Host:     os.Getenv(EnvDBHost),
		Port:     DefaultPort,
		User:     os.Getenv(EnvDBUser),
		Password: os.Getenv(EnvDBPassword),
		Database: os.Getenv(EnvDBName),
		SSLMode:  DefaultSSLMode,
	}

	if db.Host == "" {
		errs = append(errs, fmt.Errorf("%s is required: %w", EnvDBHost, cia.ErrMissingConfig))
	}
	if db.User == "" {
		errs = append(errs, fmt.Errorf("%s is required: %w", EnvDBUser, cia.ErrMissingConfig))
	}
	if db.Password == "" {
		errs = append(errs, fmt.Errorf("%s is required: %w", EnvDBPassword, cia.ErrMissingConfig))
	}
	if db.Database == "" {
		errs = append(errs, fmt.Errorf("%s is required: %w", EnvDBName, cia.ErrMissingConfig))
	}

	if portStr := os.Getenv(EnvDBPort); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			errs = append(errs, fmt.Errorf("%s must be a positive integer, got %q: %w",
				EnvDBPort, portStr, cia.ErrMissingConfig))
		} else {
			db.Port = port
		}
	}
	if sslMode := os.Getenv(EnvDBSSLMode); sslMode != "" {
		db.SSLMode = sslMode
	}

	extension := cia.DefaultFileExtension
	if project != nil && project.FileExtension != "" {
		extension = project.FileExtension
	}

	pattern := DefaultTableSuffixPattern
	if project != nil && project.TableSuffixPattern != "" {
		pattern = project.TableSuffixPattern
	}
	suffix, err := regexp.Compile(pattern)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid table_suffix_pattern %q: %w", pattern, cia.ErrMissingConfig))
	}

	if err := errors.Join(errs...); err != nil {
		return LoadConfig{}, err
	}

	return LoadConfig{
		DB:            db,
		DataDir:       resolveDataDir(project),
		FileExtension: extension,
		TableSuffix:   suffix,
	}, nil
}

// resolveDataDir applies the data directory precedence:
// CIA_DATA_DIR > cia.yaml data_dir > DefaultDataDir.
func resolveDataDir(project *ProjectConfig) string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	if project != nil && project.DataDir != "" {
		return project.DataDir
	}
	return DefaultDataDir
}

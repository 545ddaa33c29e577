// Package kaggle is a minimal client for the Kaggle-style dataset-hosting
// API: authenticate with a username/key pair, then download a dataset
// archive by ID and extract it into a local directory.
//
// There is deliberately no retry policy: a single failed attempt aborts the
// run (the pipeline is a one-shot batch tool). Cancellation and deadlines
// come from the caller's context.
package kaggle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/LTangData/customer-info-analysis/pkg/cia"
)

// DefaultBaseURL is the dataset-hosting API root.
const DefaultBaseURL = "https://www.kaggle.com/api/v1"

// Credentials authenticate against the dataset-hosting API.
type Credentials struct {
	Username string
	Key      string
}

// Client is an authenticated handle to the dataset-hosting API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      Credentials
	logger     cia.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. Primarily useful for testing
// against a local server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a client for the given credentials. Missing credential
// values are a configuration error; validity against the remote service is
// only established by Authenticate or the first fetch.
func NewClient(creds Credentials, logger cia.Logger, opts ...Option) (*Client, error) {
	if creds.Username == "" || creds.Key == "" {
		return nil, fmt.Errorf("dataset service credentials are missing: %w", cia.ErrMissingConfig)
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Minute},
		baseURL:    DefaultBaseURL,
		creds:      creds,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Authenticate verifies the credentials against the remote service with a
// cheap authenticated request. A rejection is cia.ErrAuthFailed; transport
// failures are cia.ErrFetchFailed.
func (c *Client) Authenticate(ctx context.Context) error {
	req, err := c.newRequest(ctx, c.baseURL+"/datasets/list")
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach dataset service: %v: %w", err, cia.ErrFetchFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("dataset service rejected credentials for %q: %w",
			c.creds.Username, cia.ErrAuthFailed)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("dataset service returned %s: %w", resp.Status, cia.ErrFetchFailed)
	}

	c.logger.Info("Dataset service authentication successful.")
	return nil
}

// FetchDataset downloads the archive identified by datasetID and extracts
// its contents into destDir, overwriting existing files of the same name.
// Success is observed by the presence of the extracted files; there is no
// other return value.
func (c *Client) FetchDataset(ctx context.Context, datasetID, destDir string) error {
	if datasetID == "" {
		return fmt.Errorf("dataset ID is missing: %w", cia.ErrMissingConfig)
	}

	c.logger.Info("Downloading dataset %q.", datasetID)

	archive, err := c.download(ctx, datasetID)
	if err != nil {
		return err
	}
	defer os.Remove(archive)

	if err := extractZip(archive, destDir); err != nil {
		return fmt.Errorf("failed to extract dataset %q: %v: %w", datasetID, err, cia.ErrFetchFailed)
	}

	c.logger.Info("Dataset %q downloaded and extracted to %q.", datasetID, destDir)
	return nil
}

// download streams the archive to a temporary file and returns its path.
// The archive must land on disk first because zip extraction needs random
// access to the central directory.
func (c *Client) download(ctx context.Context, datasetID string) (string, error) {
	req, err := c.newRequest(ctx, c.baseURL+"/datasets/download/"+datasetID)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download dataset %q: %v: %w", datasetID, err, cia.ErrFetchFailed)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("dataset service rejected credentials for %q: %w",
			c.creds.Username, cia.ErrAuthFailed)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("dataset service returned %s for dataset %q: %w",
			resp.Status, datasetID, cia.ErrFetchFailed)
	}

	tmp, err := os.CreateTemp("", "dataset-*.zip")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary archive: %v: %w", err, cia.ErrFetchFailed)
	}

	written, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to download dataset %q: %v: %w", datasetID, err, cia.ErrFetchFailed)
	}
	if closeErr != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write archive: %v: %w", closeErr, cia.ErrFetchFailed)
	}

	c.logger.Verbose("Downloaded %d bytes for dataset %q.", written, datasetID)
	return tmp.Name(), nil
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %v: %w", err, cia.ErrFetchFailed)
	}
	req.SetBasicAuth(c.creds.Username, c.creds.Key)
	return req, nil
}

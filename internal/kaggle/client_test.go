package kaggle

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LTangData/customer-info-analysis/internal/logging"
	"github.com/LTangData/customer-info-analysis/pkg/cia"
)

func zipArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// datasetServer fakes the two endpoints the client talks to. Requests with
// the wrong basic-auth pair are rejected with 401.
func datasetServer(t *testing.T, username, key string, archive []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/datasets/list", func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != username || p != key {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("[]"))
	})
	mux.HandleFunc("/datasets/download/", func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != username || p != key {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if filepath.Base(r.URL.Path) == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Write(archive)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, creds Credentials) *Client {
	t.Helper()
	client, err := NewClient(creds, logging.NewNullLogger(), WithBaseURL(srv.URL))
	require.NoError(t, err)
	return client
}

func TestNewClient_MissingCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{"no username", Credentials{Key: "k"}},
		{"no key", Credentials{Username: "u"}},
		{"neither", Credentials{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.creds, logging.NewNullLogger())
			assert.ErrorIs(t, err, cia.ErrMissingConfig)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	srv := datasetServer(t, "alice", "secret", nil)

	t.Run("valid credentials", func(t *testing.T) {
		client := newTestClient(t, srv, Credentials{Username: "alice", Key: "secret"})
		assert.NoError(t, client.Authenticate(context.Background()))
	})

	t.Run("rejected credentials", func(t *testing.T) {
		client := newTestClient(t, srv, Credentials{Username: "alice", Key: "wrong"})
		err := client.Authenticate(context.Background())
		assert.ErrorIs(t, err, cia.ErrAuthFailed)
		assert.Equal(t, cia.ExitConnectionError, cia.ExitCodeForError(err))
	})

	t.Run("unreachable service", func(t *testing.T) {
		client, err := NewClient(Credentials{Username: "a", Key: "b"},
			logging.NewNullLogger(), WithBaseURL("http://127.0.0.1:1"))
		require.NoError(t, err)
		err = client.Authenticate(context.Background())
		assert.ErrorIs(t, err, cia.ErrFetchFailed)
	})
}

func TestFetchDataset(t *testing.T) {
	archive := zipArchive(t, map[string]string{
		"orders_202401.csv":      "id,amount\n1,10.50\n",
		"nested/users_202401.csv": "id,name\n7,ann\n",
	})
	srv := datasetServer(t, "alice", "secret", archive)
	client := newTestClient(t, srv, Credentials{Username: "alice", Key: "secret"})

	dest := t.TempDir()
	require.NoError(t, client.FetchDataset(context.Background(), "alice/orders", dest))

	got, err := os.ReadFile(filepath.Join(dest, "orders_202401.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,amount\n1,10.50\n", string(got))

	got, err = os.ReadFile(filepath.Join(dest, "nested", "users_202401.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,name\n7,ann\n", string(got))
}

func TestFetchDataset_OverwritesExisting(t *testing.T) {
	archive := zipArchive(t, map[string]string{"orders_202401.csv": "id\n2\n"})
	srv := datasetServer(t, "alice", "secret", archive)
	client := newTestClient(t, srv, Credentials{Username: "alice", Key: "secret"})

	dest := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dest, "orders_202401.csv"),
		[]byte("stale"), 0644))

	require.NoError(t, client.FetchDataset(context.Background(), "alice/orders", dest))

	got, err := os.ReadFile(filepath.Join(dest, "orders_202401.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id\n2\n", string(got))
}

func TestFetchDataset_EmptyID(t *testing.T) {
	srv := datasetServer(t, "alice", "secret", nil)
	client := newTestClient(t, srv, Credentials{Username: "alice", Key: "secret"})

	err := client.FetchDataset(context.Background(), "", t.TempDir())
	assert.ErrorIs(t, err, cia.ErrMissingConfig)
}

func TestFetchDataset_NotFound(t *testing.T) {
	srv := datasetServer(t, "alice", "secret", nil)
	client := newTestClient(t, srv, Credentials{Username: "alice", Key: "secret"})

	err := client.FetchDataset(context.Background(), "missing", t.TempDir())
	assert.ErrorIs(t, err, cia.ErrFetchFailed)
}

func TestFetchDataset_NotAZip(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/datasets/download/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>surprise</html>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := newTestClient(t, srv, Credentials{Username: "a", Key: "b"})
	err := client.FetchDataset(context.Background(), "alice/orders", t.TempDir())
	assert.ErrorIs(t, err, cia.ErrFetchFailed)
}

func TestExtractZip_RejectsPathTraversal(t *testing.T) {
	// Hand-build an archive with an entry that escapes the destination.
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.CreateHeader(&zip.FileHeader{Name: "../escape.csv"})
	require.NoError(t, err)
	_, err = f.Write([]byte("id\n1\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	dest := filepath.Join(t.TempDir(), "inner")
	archive := filepath.Join(t.TempDir(), "evil.zip")
	require.NoError(t, os.WriteFile(archive, buf.Bytes(), 0644))

	err = extractZip(archive, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "escape.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

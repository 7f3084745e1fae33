package downloader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidbyt.dev/timetable/downloader"
)

type server struct {
	*httptest.Server
	body   string
	status int
	delay  time.Duration

	mu       sync.Mutex
	requests []*http.Request
}

func newServer(t *testing.T, body string) *server {
	s := &server{body: body, status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handler))
	t.Cleanup(s.Close)
	return s
}

func (s *server) handler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r)
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	w.WriteHeader(s.status)
	w.Write([]byte(s.body))
}

func (s *server) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request{}, s.requests...)
}

func TestHTTPGet(t *testing.T) {
	s := newServer(t, "hello")

	body, err := downloader.HTTPGet(
		context.Background(),
		s.URL+"/feed.zip",
		map[string]string{"Authorization": "Bearer abc"},
		downloader.GetOptions{},
	)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	requests := s.Requests()
	require.Equal(t, 1, len(requests))
	assert.Equal(t, "/feed.zip", requests[0].URL.Path)
	assert.Equal(t, "Bearer abc", requests[0].Header.Get("Authorization"))
}

func TestHTTPGetStatus(t *testing.T) {
	s := newServer(t, "nope")
	s.status = http.StatusNotFound

	_, err := downloader.HTTPGet(context.Background(), s.URL, nil, downloader.GetOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestHTTPGetMaxSize(t *testing.T) {
	s := newServer(t, strings.Repeat("x", 100))

	body, err := downloader.HTTPGet(context.Background(), s.URL, nil, downloader.GetOptions{MaxSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, len(body))
}

func TestHTTPGetTimeout(t *testing.T) {
	s := newServer(t, "slow")
	s.delay = 200 * time.Millisecond

	_, err := downloader.HTTPGet(context.Background(), s.URL, nil, downloader.GetOptions{Timeout: 20 * time.Millisecond})
	assert.Error(t, err)
}

func TestHTTPGetCanceled(t *testing.T) {
	s := newServer(t, "hello")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := downloader.HTTPGet(ctx, s.URL, nil, downloader.GetOptions{})
	assert.Error(t, err)
	assert.Equal(t, 0, len(s.Requests()))
}

func TestToFile(t *testing.T) {
	s := newServer(t, "zipdata")
	dir := filepath.Join(t.TempDir(), "nested", "feed")

	path, err := downloader.ToFile(context.Background(), s.URL, dir, nil, downloader.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, downloader.ArchiveName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "zipdata", string(data))
}

func TestToFileError(t *testing.T) {
	s := newServer(t, "")
	s.status = http.StatusInternalServerError
	dir := filepath.Join(t.TempDir(), "feed")

	_, err := downloader.ToFile(context.Background(), s.URL, dir, nil, downloader.GetOptions{})
	require.Error(t, err)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

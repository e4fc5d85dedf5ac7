package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/loadfire/internal/config"
	"github.com/wesleyorama2/loadfire/internal/data"
)

type countingServer struct {
	*httptest.Server
	hits atomic.Int64

	mu     sync.Mutex
	bodies []string
}

func newCountingServer(t *testing.T, status int) *countingServer {
	t.Helper()
	s := &countingServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		b, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.bodies = append(s.bodies, string(b))
		s.mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(s.Close)
	return s
}

func TestExecuteLoadTest_EndToEnd(t *testing.T) {
	server := newCountingServer(t, http.StatusOK)
	path := writeFile(t, "loadtest.yaml", "url: "+server.URL+"/echo\nmethod: GET\nrequest_count: 5\n")

	var out bytes.Buffer
	result, err := executeLoadTest(context.Background(), runOptions{configFile: path, noColor: true}, &out)
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.Summary.Succeeded)
	assert.Equal(t, int64(5), server.hits.Load())

	text := out.String()
	assert.Contains(t, text, "Total Requests: 5")
	assert.Contains(t, text, "Successful Requests: 5")
	assert.Contains(t, text, "Failed Requests: 0")
	assert.Contains(t, text, "Success Percentage: 100.00%")
	assert.Contains(t, text, "Failure Percentage: 0.00%")
}

func TestExecuteLoadTest_AllFailedStillSucceeds(t *testing.T) {
	server := newCountingServer(t, http.StatusInternalServerError)
	path := writeFile(t, "loadtest.yaml", "url: "+server.URL+"\nrequest_count: 4\n")

	var out bytes.Buffer
	result, err := executeLoadTest(context.Background(), runOptions{configFile: path, quiet: true, noColor: true}, &out)
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.Summary.Failed)
	assert.Contains(t, out.String(), "Failure Percentage: 100.00%")
}

func TestExecuteLoadTest_DataFile(t *testing.T) {
	server := newCountingServer(t, http.StatusOK)
	csvPath := writeFile(t, "users.csv", "name,id\nAnn,7\nBob,8\n")
	path := writeFile(t, "loadtest.yaml", "url: "+server.URL+"\n"+
		"method: post\n"+
		"request_count: 4\n"+
		"body: 'Hello ${name}, id=${id}'\n"+
		"data_file: "+strconv.Quote(csvPath)+"\n")

	var out bytes.Buffer
	_, err := executeLoadTest(context.Background(), runOptions{configFile: path, quiet: true, noColor: true}, &out)
	require.NoError(t, err)

	server.mu.Lock()
	defer server.mu.Unlock()
	assert.ElementsMatch(t, []string{
		"Hello Ann, id=7", "Hello Bob, id=8",
		"Hello Ann, id=7", "Hello Bob, id=8",
	}, server.bodies)
}

func TestExecuteLoadTest_ConfigError(t *testing.T) {
	path := writeFile(t, "loadtest.yaml", "request_count: 3\n")

	var out bytes.Buffer
	_, err := executeLoadTest(context.Background(), runOptions{configFile: path}, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfig)
	assert.Empty(t, out.String())
}

func TestExecuteLoadTest_DataLoadErrorSendsNothing(t *testing.T) {
	server := newCountingServer(t, http.StatusOK)
	dataPath := writeFile(t, "rows.json", "[]")
	path := writeFile(t, "loadtest.yaml", "url: "+server.URL+"\nrequest_count: 3\ndata_file: "+strconv.Quote(dataPath)+"\n")

	var out bytes.Buffer
	_, err := executeLoadTest(context.Background(), runOptions{configFile: path}, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, data.ErrDataLoad)
	assert.ErrorIs(t, err, data.ErrUnsupportedFormat)
	assert.Equal(t, int64(0), server.hits.Load())
}

func TestExecuteLoadTest_MissingConfig(t *testing.T) {
	_, err := executeLoadTest(context.Background(), runOptions{configFile: "does-not-exist.yaml"}, io.Discard)
	assert.ErrorIs(t, err, config.ErrConfig)
}

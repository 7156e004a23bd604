package restyutil

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	lock     sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.messages[id] = contents
}

func useLogLevel(t testing.TB, level slog.Level) {
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(previous) })
}

func newServer(t testing.TB) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestInstrumentClientDumpsMessages(t *testing.T) {
	useLogLevel(t, slog.LevelDebug)
	server := newServer(t)

	output := &memoryOutput{messages: map[string]string{}}
	client := resty.New().SetBaseURL(server.URL).SetBasicAuth("bot", "secret")
	InstrumentClient(client, output)

	_, err := client.R().Get("/rest/api/content")
	require.NoError(t, err)
	_, err = client.R().SetBody(map[string]string{"title": "Weather"}).Post("/rest/api/content")
	require.NoError(t, err)

	require.Len(t, output.messages, 2)
	first := output.messages["1"]
	require.Contains(t, first, "---- REQUEST ----")
	require.Contains(t, first, "GET")
	require.Contains(t, first, `{"ok":true}`)
	require.Contains(t, first, "Authorization: <redacted>")
	require.NotContains(t, first, "secret")

	require.Contains(t, output.messages["2"], `"title":"Weather"`)
}

func TestInstrumentClientQuietWithoutDebug(t *testing.T) {
	useLogLevel(t, slog.LevelInfo)
	server := newServer(t)

	output := &memoryOutput{messages: map[string]string{}}
	client := resty.New().SetBaseURL(server.URL)
	InstrumentClient(client, output)

	_, err := client.R().Get("/")
	require.NoError(t, err)
	require.Empty(t, output.messages)
}

func TestInstrumentClientNilOutput(t *testing.T) {
	server := newServer(t)
	client := resty.New().SetBaseURL(server.URL)
	InstrumentClient(client, nil)

	res, err := client.R().Get("/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())
}

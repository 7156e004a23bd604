package confluence

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"niopendata/lib/pagestore"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeConfluence implements the subset of /rest/api/content used by Client.
type fakeConfluence struct {
	lock  sync.Mutex
	pages map[string]content
	next  int
	puts  int
}

func (f *fakeConfluence) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.lock.Lock()
	defer f.lock.Unlock()

	user, pass, ok := r.BasicAuth()
	if !ok || user != "bot" || pass != "secret" {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"unauthorized"}`))
		return
	}

	w.Header().Set("content-type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/rest/api/content":
		list := contentList{Results: []content{}}
		for _, p := range f.pages {
			if p.Space.Key == r.URL.Query().Get("spaceKey") && p.Title == r.URL.Query().Get("title") {
				p.Body = nil
				list.Results = append(list.Results, p)
			}
		}
		list.Size = len(list.Results)
		json.NewEncoder(w).Encode(list)
	case r.Method == http.MethodPost && r.URL.Path == "/rest/api/content":
		var req content
		json.NewDecoder(r.Body).Decode(&req)
		f.next++
		req.Id = strings.Repeat("1", f.next)
		req.Version = &version{Number: 1}
		f.pages[req.Id] = req
		json.NewEncoder(w).Encode(req)
	case strings.HasPrefix(r.URL.Path, "/rest/api/content/"):
		id := strings.TrimPrefix(r.URL.Path, "/rest/api/content/")
		page, ok := f.pages[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"no content"}`))
			return
		}
		if r.Method == http.MethodPut {
			f.puts++
			var req content
			json.NewDecoder(r.Body).Decode(&req)
			if req.Version == nil || req.Version.Number != page.Version.Number+1 {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"message":"version conflict"}`))
				return
			}
			page.Version = req.Version
			page.Body = req.Body
			page.Title = req.Title
			f.pages[id] = page
		}
		json.NewEncoder(w).Encode(page)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func newTestClient(t testing.TB) (*Client, *fakeConfluence) {
	fake := &fakeConfluence{pages: map[string]content{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		BaseUrl:  server.URL,
		Username: "bot",
		Token:    "secret",
	})
	require.NoError(t, err)
	return client, fake
}

func TestClient(t *testing.T) {
	ctx := context.Background()
	client, fake := newTestClient(t)

	exists, err := client.PageExists(ctx, "STATS", "Weekly deaths")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = client.GetPageByTitle(ctx, "STATS", "Weekly deaths")
	require.True(t, errors.Is(err, pagestore.ErrPageNotFound), err)

	created, err := client.CreatePage(ctx, pagestore.CreatePageRequest{
		Space: "STATS",
		Title: "Weekly deaths",
		Body:  "<table></table>",
	})
	require.NoError(t, err)
	require.Equal(t, 1, created.Version)

	exists, err = client.PageExists(ctx, "STATS", "Weekly deaths")
	require.NoError(t, err)
	require.True(t, exists)

	ref, err := client.GetPageByTitle(ctx, "STATS", "Weekly deaths")
	require.NoError(t, err)
	require.Equal(t, created.ID, ref.ID)
	require.Equal(t, "STATS", ref.Space)

	page, err := client.GetPageByID(ctx, ref.ID, pagestore.ExpandBody)
	require.NoError(t, err)
	require.Equal(t, "<table></table>", page.Body)

	updated, err := client.UpdatePage(ctx, pagestore.UpdatePageRequest{
		ID:    ref.ID,
		Title: "Weekly deaths",
		Body:  "<table><tr><td>1</td></tr></table>",
	})
	require.NoError(t, err)
	require.Equal(t, 2, updated.Version)
	require.Equal(t, 1, fake.puts)

	page, err = client.GetPageByID(ctx, ref.ID, pagestore.ExpandBody)
	require.NoError(t, err)
	require.Equal(t, "<table><tr><td>1</td></tr></table>", page.Body)

	_, err = client.GetPageByID(ctx, "404", pagestore.ExpandBody)
	require.True(t, errors.Is(err, pagestore.ErrPageNotFound), err)
}

func TestClientAPIError(t *testing.T) {
	fake := &fakeConfluence{pages: map[string]content{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL, Username: "bot", Token: "wrong"})
	require.NoError(t, err)

	_, err = client.PageExists(context.Background(), "STATS", "x")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), err)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Contains(t, apiErr.Body, "unauthorized")
}

func TestNewClientRejectsRelativeUrl(t *testing.T) {
	_, err := NewClient(ClientOptions{BaseUrl: "/wiki"})
	require.Error(t, err)
}

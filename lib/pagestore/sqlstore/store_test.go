package sqlstore

import (
	"context"
	"errors"
	"niopendata/lib/pagestore"
	"niopendata/lib/pagestore/sqlstore/db"
	"niopendata/lib/testutil"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupStore(t testing.TB) Store {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "pagestore/sqlstore",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)
	return NewStore(res.DB)
}

func exerciseStore(t *testing.T, store pagestore.Store) {
	ctx := context.Background()

	exists, err := store.PageExists(ctx, "STATS", "Weekly deaths")
	require.NoError(t, err)
	require.False(t, exists)

	_, err = store.GetPageByTitle(ctx, "STATS", "Weekly deaths")
	require.True(t, errors.Is(err, pagestore.ErrPageNotFound), err)

	parent, err := store.CreatePage(ctx, pagestore.CreatePageRequest{
		Space: "STATS",
		Title: "Mortality",
		Body:  "<p>index</p>",
	})
	require.NoError(t, err)

	created, err := store.CreatePage(ctx, pagestore.CreatePageRequest{
		Space:  "STATS",
		Title:  "Weekly deaths",
		Body:   "<table></table>",
		Parent: parent.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 1, created.Version)
	require.NotEqual(t, parent.ID, created.ID)

	exists, err = store.PageExists(ctx, "STATS", "Weekly deaths")
	require.NoError(t, err)
	require.True(t, exists)

	ref, err := store.GetPageByTitle(ctx, "STATS", "Weekly deaths")
	require.NoError(t, err)
	require.Equal(t, created, ref)

	page, err := store.GetPageByID(ctx, ref.ID, pagestore.ExpandBody)
	require.NoError(t, err)
	require.Equal(t, "<table></table>", page.Body)
	require.Equal(t, ref, page.PageRef)

	page, err = store.GetPageByID(ctx, ref.ID, "version")
	require.NoError(t, err)
	require.Empty(t, page.Body)

	updated, err := store.UpdatePage(ctx, pagestore.UpdatePageRequest{
		ID:    ref.ID,
		Title: "Weekly deaths",
		Body:  "<table><tr><td>1</td></tr></table>",
	})
	require.NoError(t, err)
	require.Equal(t, 2, updated.Version)

	page, err = store.GetPageByID(ctx, ref.ID, pagestore.ExpandBody)
	require.NoError(t, err)
	require.Equal(t, "<table><tr><td>1</td></tr></table>", page.Body)
	require.Equal(t, 2, page.Version)

	_, err = store.GetPageByID(ctx, "999", pagestore.ExpandBody)
	require.True(t, errors.Is(err, pagestore.ErrPageNotFound), err)
	_, err = store.UpdatePage(ctx, pagestore.UpdatePageRequest{ID: "999", Body: "x"})
	require.True(t, errors.Is(err, pagestore.ErrPageNotFound), err)
}

func TestStore(t *testing.T) {
	exerciseStore(t, setupStore(t))
}

func TestStoreRejectsDuplicateTitle(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	_, err := store.CreatePage(ctx, pagestore.CreatePageRequest{Space: "STATS", Title: "A", Body: "x"})
	require.NoError(t, err)
	_, err = store.CreatePage(ctx, pagestore.CreatePageRequest{Space: "STATS", Title: "A", Body: "y"})
	require.Error(t, err)

	// same title in another space is a different page
	_, err = store.CreatePage(ctx, pagestore.CreatePageRequest{Space: "OPS", Title: "A", Body: "z"})
	require.NoError(t, err)
}

func TestStoreInvalidIDs(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	_, err := store.GetPageByID(ctx, "not-a-number", pagestore.ExpandBody)
	require.True(t, errors.Is(err, pagestore.ErrPageNotFound), err)

	_, err = store.CreatePage(ctx, pagestore.CreatePageRequest{Space: "STATS", Title: "A", Parent: "root"})
	require.Error(t, err)
}

func TestListPages(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)

	for _, title := range []string{"Weekly deaths", "Births", "Migration"} {
		_, err := store.CreatePage(ctx, pagestore.CreatePageRequest{Space: "STATS", Title: title})
		require.NoError(t, err)
	}
	_, err := store.CreatePage(ctx, pagestore.CreatePageRequest{Space: "OPS", Title: "Runbook"})
	require.NoError(t, err)

	pages, err := store.ListPages(ctx, "STATS")
	require.NoError(t, err)

	var titles []string
	for _, p := range pages {
		titles = append(titles, p.Title)
	}
	require.Equal(t, []string{"Births", "Migration", "Weekly deaths"}, titles)
}

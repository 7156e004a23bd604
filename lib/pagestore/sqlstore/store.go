// Package sqlstore keeps pages in a sqlite or libsql database. It backs the
// CLI when no wiki is configured and doubles as an inspectable local mirror.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"niopendata/lib/pagestore"
	"niopendata/lib/pagestore/sqlstore/db"
	"niopendata/lib/timezone"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("niopendata.lib.pagestore.sqlstore")

// ErrVersionConflict is returned when a page changed between the version
// read and the write in UpdatePage.
var ErrVersionConflict = errors.New("page was modified concurrently")

type Store struct {
	qry *db.Queries
	db  *sql.DB
}

// NewStore wraps database, it expects db.Schema to already be applied.
func NewStore(database *sql.DB) Store {
	return Store{
		qry: db.New(database),
		db:  database,
	}
}

// Migrate applies the page schema, it is safe to call repeatedly.
func Migrate(ctx context.Context, database *sql.DB) error {
	_, err := database.ExecContext(ctx, db.Schema)
	return err
}

func pageType(t string) string {
	if t == "" {
		return pagestore.TypePage
	}
	return t
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid id %q", pagestore.ErrPageNotFound, id)
	}
	return n, nil
}

func parentID(parent string) (sql.NullInt64, error) {
	if parent == "" {
		return sql.NullInt64{}, nil
	}
	n, err := strconv.ParseInt(parent, 10, 64)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("invalid parent id %q", parent)
	}
	return sql.NullInt64{Int64: n, Valid: true}, nil
}

func (s Store) PageExists(ctx context.Context, space, title string) (bool, error) {
	_, err := s.GetPageByTitle(ctx, space, title)
	if errors.Is(err, pagestore.ErrPageNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s Store) GetPageByTitle(ctx context.Context, space, title string) (pagestore.PageRef, error) {
	ctx, span := tracer.Start(ctx, "GetPageByTitle")
	defer span.End()

	row, err := s.qry.GetPageByTitle(ctx, db.GetPageByTitleParams{
		Space: space,
		Title: title,
	})
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "page not found")
		return pagestore.PageRef{}, pagestore.ErrPageNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query page")
		return pagestore.PageRef{}, err
	}
	return pagestore.PageRef{
		ID:      strconv.FormatInt(row.ID, 10),
		Space:   row.Space,
		Title:   row.Title,
		Version: int(row.Version),
	}, nil
}

// GetPageByID only fills Body when expand asks for the storage body, the
// same as the wiki API does.
func (s Store) GetPageByID(ctx context.Context, id string, expand string) (pagestore.Page, error) {
	ctx, span := tracer.Start(ctx, "GetPageByID")
	defer span.End()
	span.SetAttributes(attribute.String("page_id", id))

	n, err := parseID(id)
	if err != nil {
		return pagestore.Page{}, err
	}
	row, err := s.qry.GetPage(ctx, n)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "page not found")
		return pagestore.Page{}, pagestore.ErrPageNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query page")
		return pagestore.Page{}, err
	}

	page := pagestore.Page{
		PageRef: pagestore.PageRef{
			ID:      id,
			Space:   row.Space,
			Title:   row.Title,
			Version: int(row.Version),
		},
	}
	if strings.Contains(expand, "body.storage") {
		page.Body = row.Body
	}
	return page, nil
}

func (s Store) CreatePage(ctx context.Context, req pagestore.CreatePageRequest) (pagestore.PageRef, error) {
	ctx, span := tracer.Start(ctx, "CreatePage")
	defer span.End()
	span.SetAttributes(
		attribute.String("space", req.Space),
		attribute.String("title", req.Title),
	)

	parent, err := parentID(req.Parent)
	if err != nil {
		return pagestore.PageRef{}, err
	}
	row, err := s.qry.CreatePage(ctx, db.CreatePageParams{
		Space:     req.Space,
		Title:     req.Title,
		Parent:    parent,
		Type:      pageType(req.Type),
		Body:      req.Body,
		UpdatedAt: timezone.Now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create page")
		return pagestore.PageRef{}, err
	}
	return pagestore.PageRef{
		ID:      strconv.FormatInt(row.ID, 10),
		Space:   req.Space,
		Title:   req.Title,
		Version: int(row.Version),
	}, nil
}

// UpdatePage bumps the page version by one. the read and the write share a
// transaction, the version guard in the update catches writers on other
// connections.
func (s Store) UpdatePage(ctx context.Context, req pagestore.UpdatePageRequest) (pagestore.PageRef, error) {
	ctx, span := tracer.Start(ctx, "UpdatePage")
	defer span.End()
	span.SetAttributes(attribute.String("page_id", req.ID))

	n, err := parseID(req.ID)
	if err != nil {
		return pagestore.PageRef{}, err
	}
	parent, err := parentID(req.Parent)
	if err != nil {
		return pagestore.PageRef{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return pagestore.PageRef{}, err
	}
	defer tx.Rollback()
	qry := s.qry.WithTx(tx)

	current, err := qry.GetPage(ctx, n)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "page not found")
		return pagestore.PageRef{}, pagestore.ErrPageNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read current version")
		return pagestore.PageRef{}, err
	}

	title := req.Title
	if title == "" {
		title = current.Title
	}
	affected, err := qry.UpdatePage(ctx, db.UpdatePageParams{
		Title:     title,
		Body:      req.Body,
		Type:      pageType(req.Type),
		Parent:    parent,
		UpdatedAt: timezone.Now().Unix(),
		ID:        n,
		Version:   current.Version,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update page")
		return pagestore.PageRef{}, err
	}
	if affected == 0 {
		span.SetStatus(codes.Error, "version conflict")
		return pagestore.PageRef{}, ErrVersionConflict
	}
	err = tx.Commit()
	if err != nil {
		return pagestore.PageRef{}, err
	}

	return pagestore.PageRef{
		ID:      req.ID,
		Space:   current.Space,
		Title:   title,
		Version: int(current.Version) + 1,
	}, nil
}

// ListPages returns every page in space ordered by title.
func (s Store) ListPages(ctx context.Context, space string) ([]pagestore.PageRef, error) {
	rows, err := s.qry.ListPages(ctx, space)
	if err != nil {
		return nil, err
	}
	out := make([]pagestore.PageRef, len(rows))
	for i, r := range rows {
		out[i] = pagestore.PageRef{
			ID:      strconv.FormatInt(r.ID, 10),
			Space:   r.Space,
			Title:   r.Title,
			Version: int(r.Version),
		}
	}
	return out, nil
}

var _ pagestore.Store = Store{}

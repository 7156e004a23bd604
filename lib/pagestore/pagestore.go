// Package pagestore describes the remote wiki page store the table
// synchronizer reads from and writes to.
package pagestore

import (
	"context"
	"errors"
)

var ErrPageNotFound = errors.New("page not found")

const (
	TypePage     = "page"
	TypeBlogpost = "blogpost"
)

// ExpandBody asks GetPageByID for the storage body and version.
const ExpandBody = "body.storage,version"

type PageRef struct {
	ID      string
	Space   string
	Title   string
	Version int
}

type Page struct {
	PageRef
	// Body is the page content in storage format (XHTML).
	Body string
}

type CreatePageRequest struct {
	Space string
	Title string
	Body  string
	// Parent is the id of the parent page, empty for a top level page.
	Parent string
	Type   string
}

type UpdatePageRequest struct {
	Parent string
	ID     string
	Title  string
	Body   string
	Type   string
}

// Store is a remote page store. Implementations do not retry, errors from
// the underlying transport are returned as is.
type Store interface {
	PageExists(ctx context.Context, space, title string) (bool, error)
	GetPageByTitle(ctx context.Context, space, title string) (PageRef, error)
	GetPageByID(ctx context.Context, id string, expand string) (Page, error)
	CreatePage(ctx context.Context, req CreatePageRequest) (PageRef, error)
	UpdatePage(ctx context.Context, req UpdatePageRequest) (PageRef, error)
}

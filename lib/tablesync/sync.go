// Package tablesync keeps a table on a wiki page in step with a set of
// records, writing only when the table would actually change.
package tablesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"niopendata/lib/htmltable"
	"niopendata/lib/htmlutil"
	"niopendata/lib/pagestore"
	"niopendata/lib/timezone"
	"niopendata/lib/tree"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Outcome int

// the zero Outcome is reported alongside errors and names no outcome.
const (
	// Created means the page did not exist and was created.
	Created Outcome = iota + 1
	Appended
	Prepended
	// NoOp means nothing was written.
	NoOp
	Rewritten
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Appended:
		return "appended"
	case Prepended:
		return "prepended"
	case NoOp:
		return "noop"
	case Rewritten:
		return "rewritten"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

type Request struct {
	Space string
	Title string
	// Parent is the id of the page a new page is created under.
	Parent string
	// Type defaults to pagestore.TypePage.
	Type string

	// Schema describes the table columns, without the index column.
	Schema tree.Branch
	Rows   []htmltable.Row
	// NewIndex, when set, replaces the index of each row in Rows.
	NewIndex []string

	// Append and Prepend add a single row to the existing table instead of
	// merging Rows into it.
	Append  bool
	Prepend bool

	// Header and Footer surround the table when the page is created. Footer
	// defaults to a "Last updated" line.
	Header string
	Footer string
}

type Result struct {
	Outcome Outcome
	Page    pagestore.PageRef
	// Diffs holds the changed rows of a rewrite keyed by index.
	Diffs map[string]Diff
}

type Synchronizer struct {
	Store pagestore.Store
	// defaults to htmltable.DefaultFormatter
	Formatter htmltable.Formatter
	// defaults to timezone.Now
	Now func() time.Time
}

func NewSynchronizer(store pagestore.Store) Synchronizer {
	return Synchronizer{
		Store:     store,
		Formatter: htmltable.DefaultFormatter,
		Now:       timezone.Now,
	}
}

func (s Synchronizer) stamp() string {
	now := s.Now
	if now == nil {
		now = timezone.Now
	}
	return timezone.Stamp(now())
}

func (s Synchronizer) encode(schema tree.Branch, rows []htmltable.Row) (string, error) {
	formatter := s.Formatter
	if formatter == nil {
		formatter = htmltable.DefaultFormatter
	}
	return htmltable.Encode(schema, rows, htmltable.EncodeOptions{Formatter: formatter})
}

// prepare checks req without touching the store and returns the rows to
// write.
func prepare(req Request) ([]htmltable.Row, error) {
	if req.Append && req.Prepend {
		return nil, ErrConflictingModes
	}
	if req.NewIndex != nil && len(req.NewIndex) != len(req.Rows) {
		return nil, fmt.Errorf("%w: %d indices for %d rows", ErrIndexLength, len(req.NewIndex), len(req.Rows))
	}
	if (req.Append || req.Prepend) && len(req.Rows) != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrMultiRowIncremental, len(req.Rows))
	}
	err := tree.Validate(req.Schema)
	if err != nil {
		return nil, err
	}
	if _, reserved := req.Schema.Get(htmltable.IndexLabel); reserved {
		return nil, fmt.Errorf("%w: the empty label is reserved for the index column", htmltable.ErrInvalidArgument)
	}
	err = checkLabels(req.Schema, nil)
	if err != nil {
		return nil, err
	}
	err = checkHeaderReadsBack(req.Schema)
	if err != nil {
		return nil, err
	}

	rows := make([]htmltable.Row, len(req.Rows))
	copy(rows, req.Rows)
	seen := map[string]bool{}
	for i := range rows {
		if req.NewIndex != nil {
			rows[i].Index = req.NewIndex[i]
		}
		if seen[rows[i].Index] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateIndex, rows[i].Index)
		}
		seen[rows[i].Index] = true
	}
	return rows, nil
}

// checkLabels rejects labels that would read back differently from a page,
// since cells are matched to columns by their normalized text.
func checkLabels(b tree.Branch, prefix tree.Path) error {
	for _, c := range b.Children {
		if normal := htmlutil.NormalizeText(c.Label); normal != c.Label {
			return fmt.Errorf(
				"%w: label %q at %q is not in normalized form, use %q",
				htmltable.ErrInvalidArgument, c.Label, prefix.String(), normal,
			)
		}
		if child, ok := c.Node.(tree.Branch); ok {
			err := checkLabels(child, append(prefix, c.Label))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// checkHeaderReadsBack encodes an empty table with schema and decodes it
// again, so a page is never written with a header that later syncs refuse.
func checkHeaderReadsBack(schema tree.Branch) error {
	markup, err := htmltable.Encode(schema, nil, htmltable.EncodeOptions{})
	if err != nil {
		return err
	}
	decoded, _, err := htmltable.DecodeHTML(strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("header would not decode: %w", err)
	}
	if !slices.EqualFunc(tree.Paths(schema), tree.Paths(decoded.Without(htmltable.IndexLabel)), slices.Equal[tree.Path]) {
		return fmt.Errorf("%w: header decodes to different columns", htmltable.ErrInvalidArgument)
	}
	return nil
}

// Sync makes the table on the page titled req.Title reflect req. The
// existing page is read once and written at most once; it is never written
// when its current table cannot be decoded.
func (s Synchronizer) Sync(ctx context.Context, req Request) (Result, error) {
	ctx, span := tracer.Start(ctx, "Sync")
	defer span.End()
	span.SetAttributes(
		attribute.String("space", req.Space),
		attribute.String("title", req.Title),
		attribute.Int("rows", len(req.Rows)),
	)

	result, err := s.sync(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sync failed")
		return Result{}, err
	}
	span.SetAttributes(attribute.String("outcome", result.Outcome.String()))
	recordOutcome(ctx, req.Space, result.Outcome)
	return result, nil
}

func (s Synchronizer) sync(ctx context.Context, req Request) (Result, error) {
	rows, err := prepare(req)
	if err != nil {
		return Result{}, err
	}

	exists, err := s.Store.PageExists(ctx, req.Space, req.Title)
	if err != nil {
		return Result{}, err
	}
	if !exists {
		return s.create(ctx, req, rows)
	}

	ref, err := s.Store.GetPageByTitle(ctx, req.Space, req.Title)
	if err != nil {
		return Result{}, err
	}
	page, err := s.Store.GetPageByID(ctx, ref.ID, pagestore.ExpandBody)
	if err != nil {
		return Result{}, err
	}
	body, err := parsePageBody(page.Body)
	if err != nil {
		return Result{}, err
	}
	_, existing, err := htmltable.DecodeSelection(body.table)
	if err != nil {
		slog.ErrorContext(
			ctx, "refusing to write page with undecodable table",
			"space", req.Space,
			"title", req.Title,
			"err", err,
		)
		return Result{}, fmt.Errorf("%w: %w", ErrUndecodable, err)
	}

	if req.Append || req.Prepend {
		return s.incremental(ctx, req, page, body, existing, rows[0])
	}
	return s.replace(ctx, req, page, body, existing, rows)
}

func (s Synchronizer) create(ctx context.Context, req Request, rows []htmltable.Row) (Result, error) {
	markup, err := s.encode(req.Schema, rows)
	if err != nil {
		return Result{}, err
	}
	footer := req.Footer
	if footer == "" {
		footer = defaultFooter(s.stamp())
	}

	ref, err := s.Store.CreatePage(ctx, pagestore.CreatePageRequest{
		Space:  req.Space,
		Title:  req.Title,
		Body:   newPageBody(req.Header, markup, footer),
		Parent: req.Parent,
		Type:   req.Type,
	})
	if err != nil {
		return Result{}, err
	}
	slog.InfoContext(
		ctx, "created page",
		"space", req.Space,
		"title", req.Title,
		"id", ref.ID,
		"rows", len(rows),
	)
	return Result{Outcome: Created, Page: ref}, nil
}

func (s Synchronizer) incremental(
	ctx context.Context,
	req Request,
	page pagestore.Page,
	body pageBody,
	existing []htmltable.Row,
	row htmltable.Row,
) (Result, error) {
	for _, r := range existing {
		if r.Index == row.Index {
			slog.InfoContext(
				ctx, "row already present, skipping write",
				"space", req.Space,
				"title", req.Title,
				"index", row.Index,
			)
			return Result{Outcome: NoOp, Page: page.PageRef}, nil
		}
	}

	merged := make([]htmltable.Row, 0, len(existing)+1)
	outcome := Appended
	if req.Prepend {
		outcome = Prepended
		merged = append(merged, row)
		merged = append(merged, existing...)
	} else {
		merged = append(merged, existing...)
		merged = append(merged, row)
	}

	markup, err := s.encode(req.Schema, merged)
	if err != nil {
		return Result{}, err
	}
	return s.write(ctx, req, page, body, markup, outcome, nil)
}

// mergeRows keeps the order of existing, replacing rows that share an index
// with rows and appending the rest of rows at the end.
func mergeRows(existing, rows []htmltable.Row) []htmltable.Row {
	incoming := map[string]htmltable.Row{}
	for _, r := range rows {
		incoming[r.Index] = r
	}

	merged := make([]htmltable.Row, 0, len(existing)+len(rows))
	used := map[string]bool{}
	for _, r := range existing {
		if replacement, ok := incoming[r.Index]; ok {
			merged = append(merged, replacement)
			used[r.Index] = true
			continue
		}
		merged = append(merged, r)
	}
	for _, r := range rows {
		if !used[r.Index] {
			merged = append(merged, r)
		}
	}
	return merged
}

// diffRows compares rows by index. a row missing on one side compares as an
// empty record.
func diffRows(existing, intended []htmltable.Row) map[string]Diff {
	before := map[string]tree.Branch{}
	var order []string
	for _, r := range existing {
		if _, ok := before[r.Index]; !ok {
			order = append(order, r.Index)
		}
		before[r.Index] = r.Record
	}
	after := map[string]tree.Branch{}
	for _, r := range intended {
		if _, ok := before[r.Index]; !ok {
			if _, seen := after[r.Index]; !seen {
				order = append(order, r.Index)
			}
		}
		after[r.Index] = r.Record
	}

	diffs := map[string]Diff{}
	for _, index := range order {
		d := DiffRecords(before[index], after[index])
		if len(d) > 0 {
			diffs[index] = d
		}
	}
	return diffs
}

func (s Synchronizer) replace(
	ctx context.Context,
	req Request,
	page pagestore.Page,
	body pageBody,
	existing []htmltable.Row,
	rows []htmltable.Row,
) (Result, error) {
	markup, err := s.encode(req.Schema, mergeRows(existing, rows))
	if err != nil {
		return Result{}, err
	}
	// compare what the page would hold after the write, so values that
	// only differ before formatting do not count as changes
	_, intended, err := htmltable.DecodeHTML(strings.NewReader(markup))
	if err != nil {
		return Result{}, err
	}

	diffs := diffRows(existing, intended)
	if len(diffs) == 0 {
		slog.InfoContext(
			ctx, "table unchanged, skipping write",
			"space", req.Space,
			"title", req.Title,
		)
		return Result{Outcome: NoOp, Page: page.PageRef}, nil
	}
	return s.write(ctx, req, page, body, markup, Rewritten, diffs)
}

func (s Synchronizer) write(
	ctx context.Context,
	req Request,
	page pagestore.Page,
	body pageBody,
	markup string,
	outcome Outcome,
	diffs map[string]Diff,
) (Result, error) {
	updated, err := body.replaceTable(markup, s.stamp())
	if err != nil {
		return Result{}, err
	}
	ref, err := s.Store.UpdatePage(ctx, pagestore.UpdatePageRequest{
		Parent: req.Parent,
		ID:     page.ID,
		Title:  page.Title,
		Body:   updated,
		Type:   req.Type,
	})
	if err != nil {
		return Result{}, err
	}
	slog.InfoContext(
		ctx, "updated page",
		"space", req.Space,
		"title", req.Title,
		"id", ref.ID,
		"version", ref.Version,
		"outcome", outcome.String(),
		"changed_rows", len(diffs),
	)
	return Result{Outcome: outcome, Page: ref, Diffs: diffs}, nil
}

// IsFailClosed reports whether err means an existing page was left
// untouched because its table could not be trusted.
func IsFailClosed(err error) bool {
	return errors.Is(err, ErrUndecodable) ||
		errors.Is(err, ErrTableNotFound) ||
		errors.Is(err, ErrMultipleTables)
}

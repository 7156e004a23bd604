package confluence

import (
	"context"
	"fmt"
	"net/url"
	"niopendata/lib/pagestore"
	"niopendata/lib/restyutil"
	"niopendata/lib/telemetry"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("niopendata.lib.pagestore.confluence")

// APIError is a non 2xx response from the Confluence REST API.
type APIError struct {
	Method string
	Url    string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("confluence: %s %s returned %d: %s", e.Method, e.Url, e.Status, e.Body)
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

type ClientOptions struct {
	BaseUrl string
	// Username and Token are used for basic auth, if Username is empty
	// Token is sent as a bearer token instead.
	Username string
	Token    string
	Timeout  time.Duration
	// optional, dumps every request/response pair when debug logging is on
	Output restyutil.InstrumentOutput
}

func NewClient(opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("confluence: base url %q must be absolute", opts.BaseUrl)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}

	client := resty.New()
	client.SetBaseURL(baseUrl.String())
	client.SetHeader("accept", "application/json")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(timeout)
	if opts.Username != "" {
		client.SetBasicAuth(opts.Username, opts.Token)
	} else if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}

	telemetry.InstrumentResty(client, "niopendata.lib.pagestore.confluence/http")
	restyutil.InstrumentClient(client, opts.Output)

	return &Client{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

type space struct {
	Key string `json:"key"`
}

type version struct {
	Number int `json:"number"`
}

type storage struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

type body struct {
	Storage storage `json:"storage"`
}

type ancestor struct {
	Id string `json:"id"`
}

type content struct {
	Id        string     `json:"id,omitempty"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Space     *space     `json:"space,omitempty"`
	Version   *version   `json:"version,omitempty"`
	Ancestors []ancestor `json:"ancestors,omitempty"`
	Body      *body      `json:"body,omitempty"`
}

type contentList struct {
	Results []content `json:"results"`
	Size    int       `json:"size"`
}

func (c content) ref() pagestore.PageRef {
	ref := pagestore.PageRef{
		ID:    c.Id,
		Title: c.Title,
	}
	if c.Space != nil {
		ref.Space = c.Space.Key
	}
	if c.Version != nil {
		ref.Version = c.Version.Number
	}
	return ref
}

func storageBody(value string) *body {
	return &body{Storage: storage{Value: value, Representation: "storage"}}
}

func checkResponse(res *resty.Response) error {
	if !res.IsError() {
		return nil
	}
	return &APIError{
		Method: res.Request.Method,
		Url:    res.Request.URL,
		Status: res.StatusCode(),
		Body:   res.String(),
	}
}

func (c *Client) findByTitle(ctx context.Context, spaceKey, title string) ([]content, error) {
	var out contentList
	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"spaceKey": spaceKey,
			"title":    title,
			"expand":   "space,version",
		}).
		SetResult(&out).
		Get("/rest/api/content")
	if err != nil {
		return nil, err
	}
	err = checkResponse(res)
	if err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) PageExists(ctx context.Context, spaceKey, title string) (bool, error) {
	ctx, span := tracer.Start(ctx, "PageExists")
	defer span.End()

	results, err := c.findByTitle(ctx, spaceKey, title)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to search for page")
		return false, err
	}
	return len(results) > 0, nil
}

func (c *Client) GetPageByTitle(ctx context.Context, spaceKey, title string) (pagestore.PageRef, error) {
	ctx, span := tracer.Start(ctx, "GetPageByTitle")
	defer span.End()

	results, err := c.findByTitle(ctx, spaceKey, title)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to search for page")
		return pagestore.PageRef{}, err
	}
	if len(results) == 0 {
		span.SetStatus(codes.Error, "page not found")
		return pagestore.PageRef{}, fmt.Errorf("%w: %s/%s", pagestore.ErrPageNotFound, spaceKey, title)
	}
	return results[0].ref(), nil
}

func (c *Client) GetPageByID(ctx context.Context, id string, expand string) (pagestore.Page, error) {
	ctx, span := tracer.Start(ctx, "GetPageByID")
	defer span.End()
	span.SetAttributes(attribute.String("page_id", id))

	req := c.Http.R().
		SetContext(ctx).
		SetPathParam("id", id)
	if expand != "" {
		req.SetQueryParam("expand", expand)
	}

	var out content
	res, err := req.SetResult(&out).Get("/rest/api/content/{id}")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch page")
		return pagestore.Page{}, err
	}
	if res.StatusCode() == 404 {
		span.SetStatus(codes.Error, "page not found")
		return pagestore.Page{}, fmt.Errorf("%w: id %s", pagestore.ErrPageNotFound, id)
	}
	err = checkResponse(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch page")
		return pagestore.Page{}, err
	}

	page := pagestore.Page{PageRef: out.ref()}
	if out.Body != nil {
		page.Body = out.Body.Storage.Value
	}
	return page, nil
}

func (c *Client) CreatePage(ctx context.Context, req pagestore.CreatePageRequest) (pagestore.PageRef, error) {
	ctx, span := tracer.Start(ctx, "CreatePage")
	defer span.End()

	payload := content{
		Type:  pageType(req.Type),
		Title: req.Title,
		Space: &space{Key: req.Space},
		Body:  storageBody(req.Body),
	}
	if req.Parent != "" {
		payload.Ancestors = []ancestor{{Id: req.Parent}}
	}

	var out content
	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(payload).
		SetResult(&out).
		Post("/rest/api/content")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create page")
		return pagestore.PageRef{}, err
	}
	err = checkResponse(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create page")
		return pagestore.PageRef{}, err
	}
	return out.ref(), nil
}

// UpdatePage reads the current version right before writing version+1,
// it does not guard against a concurrent writer in between.
func (c *Client) UpdatePage(ctx context.Context, req pagestore.UpdatePageRequest) (pagestore.PageRef, error) {
	ctx, span := tracer.Start(ctx, "UpdatePage")
	defer span.End()
	span.SetAttributes(attribute.String("page_id", req.ID))

	current, err := c.GetPageByID(ctx, req.ID, "version")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read current version")
		return pagestore.PageRef{}, err
	}

	payload := content{
		Id:      req.ID,
		Type:    pageType(req.Type),
		Title:   req.Title,
		Version: &version{Number: current.Version + 1},
		Body:    storageBody(req.Body),
	}
	if req.Parent != "" {
		payload.Ancestors = []ancestor{{Id: req.Parent}}
	}

	var out content
	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetPathParam("id", req.ID).
		SetBody(payload).
		SetResult(&out).
		Put("/rest/api/content/{id}")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update page")
		return pagestore.PageRef{}, err
	}
	err = checkResponse(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update page")
		return pagestore.PageRef{}, err
	}

	span.SetAttributes(attribute.String("version", strconv.Itoa(out.ref().Version)))
	return out.ref(), nil
}

func pageType(t string) string {
	if t == "" {
		return pagestore.TypePage
	}
	return t
}

var _ pagestore.Store = (*Client)(nil)

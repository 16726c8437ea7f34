package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
	"github.com/go-openapi/runtime"
	httptransport "github.com/go-openapi/runtime/client"
	"github.com/go-openapi/strfmt"
	"go-micro.dev/v4/logger"
	"golang.org/x/time/rate"
)

const (
	defaultRPS   = 20.0
	defaultBurst = 10

	sortByPopularity = "popularity.desc"
	appendToDetails  = "credits,videos"
)

// Settings holds connection parameters of the catalog API
type Settings struct {
	Scheme string
	Host   string
	Path   string
	Token  string

	RequestsPerSecond float64
	Burst             int
}

// Client is a rate-limited client of the movie catalog API
type Client struct {
	tr      *httptransport.Runtime
	auth    runtime.ClientAuthInfoWriter
	scheme  string
	limiter *rate.Limiter
}

func New(settings Settings) *Client {
	scheme := settings.Scheme
	if scheme == "" {
		scheme = "https"
	}
	rps := settings.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := settings.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	tr := httptransport.New(settings.Host, settings.Path, []string{scheme})
	tr.Formats = strfmt.Default

	c := &Client{
		tr:      tr,
		scheme:  scheme,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
	if settings.Token != "" {
		c.auth = httptransport.BearerToken(settings.Token)
	}

	return c
}

// Discover returns page of all movies sorted by popularity
func (c *Client) Discover(ctx context.Context, page int) (*Page, error) {
	params := func(r runtime.ClientRequest, _ strfmt.Registry) error {
		if err := r.SetQueryParam("sort_by", sortByPopularity); err != nil {
			return err
		}
		return r.SetQueryParam("page", strconv.Itoa(page))
	}
	return c.getPage(ctx, "discoverMovies", "/discover/movie", params)
}

// Search returns page of movies matched the query. The query is sent as is.
func (c *Client) Search(ctx context.Context, query string, page int) (*Page, error) {
	params := func(r runtime.ClientRequest, _ strfmt.Registry) error {
		if err := r.SetQueryParam("query", query); err != nil {
			return err
		}
		return r.SetQueryParam("page", strconv.Itoa(page))
	}
	return c.getPage(ctx, "searchMovies", "/search/movie", params)
}

// GetDetails returns extended movie record with credits and videos
func (c *Client) GetDetails(ctx context.Context, id model.ID) (*Details, error) {
	params := func(r runtime.ClientRequest, _ strfmt.Registry) error {
		if err := r.SetPathParam("id", id.String()); err != nil {
			return err
		}
		return r.SetQueryParam("append_to_response", appendToDetails)
	}
	reader := func(response runtime.ClientResponse, consumer runtime.Consumer) (interface{}, error) {
		if response.Code() == http.StatusNotFound {
			return nil, ErrNotFound
		}
		if response.Code() != http.StatusOK {
			return nil, runtime.NewAPIError("getMovieDetails", response.Message(), response.Code())
		}
		payload := &Details{}
		if err := consumer.Consume(response.Body(), payload); err != nil && err != io.EOF {
			return nil, err
		}
		return payload, nil
	}

	result, err := c.submit(ctx, "getMovieDetails", "/movie/{id}", params, reader)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get details of %s: %w", ErrTransport, id, err)
	}
	return result.(*Details), nil
}

func (c *Client) getPage(ctx context.Context, id, path string, params runtime.ClientRequestWriterFunc) (*Page, error) {
	reader := func(response runtime.ClientResponse, consumer runtime.Consumer) (interface{}, error) {
		if response.Code() != http.StatusOK {
			return nil, runtime.NewAPIError(id, response.Message(), response.Code())
		}
		payload := &pagePayload{}
		if err := consumer.Consume(response.Body(), payload); err != nil && err != io.EOF {
			return nil, err
		}
		return payload, nil
	}

	result, err := c.submit(ctx, id, path, params, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransport, id, err)
	}

	payload := result.(*pagePayload)
	if payload.noResults() {
		return nil, &NoResultsError{Message: payload.Error}
	}

	page := &Page{
		Results:    payload.Results,
		TotalPages: payload.TotalPages,
	}
	if page.Results == nil {
		page.Results = []model.Movie{}
	}
	if page.TotalPages < 1 {
		page.TotalPages = 1
	}
	return page, nil
}

func (c *Client) submit(ctx context.Context, id, path string, params runtime.ClientRequestWriterFunc, reader runtime.ClientResponseReaderFunc) (interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	logger.Debugf("Catalog request: %s", id)

	return c.tr.Submit(&runtime.ClientOperation{
		ID:                 id,
		Method:             http.MethodGet,
		PathPattern:        path,
		ProducesMediaTypes: []string{"application/json"},
		ConsumesMediaTypes: []string{"application/json"},
		Schemes:            []string{c.scheme},
		Params:             params,
		Reader:             reader,
		AuthInfo:           c.auth,
		Context:            ctx,
	})
}

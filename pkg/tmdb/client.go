package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/Saber4Dev/tmdb-slider/pkg/cache"
)

// Credentials provides the TMDb API key.
// It's called on every request, so a changed key takes effect immediately.
type Credentials interface {
	APIKey() string
}

// StaticCredentials is a fixed API key.
type StaticCredentials string

// APIKey implements the Credentials interface.
func (c StaticCredentials) APIKey() string {
	return string(c)
}

// maxResponseSize limits how much of a TMDb response body is read.
const maxResponseSize = 10 << 20

type ClientOptions struct {
	// Must end with a slash
	BaseURL  string
	Language string
	Timeout  time.Duration
	// TTL for responses fetched via the list accessors
	CacheAge time.Duration
	// Optional. For example "127.0.0.1:9050".
	SocksProxyAddr string
}

func NewClientOpts(baseURL, language string, timeout, cacheAge time.Duration, socksProxyAddr string) ClientOptions {
	return ClientOptions{
		BaseURL:        baseURL,
		Language:       language,
		Timeout:        timeout,
		CacheAge:       cacheAge,
		SocksProxyAddr: socksProxyAddr,
	}
}

var DefaultClientOpts = ClientOptions{
	BaseURL:  "https://api.themoviedb.org/3/",
	Language: "en-US",
	Timeout:  15 * time.Second,
	CacheAge: time.Hour,
}

type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
	cache      cache.Store
	cacheAge   time.Duration
	creds      Credentials
	logger     *zap.Logger
}

func NewClient(opts ClientOptions, creds Credentials, store cache.Store, logger *zap.Logger) (*Client, error) {
	// Precondition check
	if opts.BaseURL == "" {
		return nil, errors.New("opts.BaseURL must not be empty")
	} else if creds == nil {
		return nil, errors.New("creds must not be nil")
	} else if store == nil {
		return nil, errors.New("store must not be nil")
	}

	httpClient, err := newHTTPclient(opts.Timeout, opts.SocksProxyAddr)
	if err != nil {
		return nil, fmt.Errorf("Couldn't create HTTP client: %v", err)
	}

	baseURL := opts.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	language := opts.Language
	if language == "" {
		language = DefaultClientOpts.Language
	}

	return &Client{
		baseURL:    baseURL,
		language:   language,
		httpClient: httpClient,
		cache:      store,
		cacheAge:   opts.CacheAge,
		creds:      creds,
		logger:     logger,
	}, nil
}

// Fetch requests the given endpoint, for example "movie/popular", and returns the raw JSON payload.
// The language and API key are added to the query, params take precedence over them.
// A cached payload is returned without network call as long as it's younger than ttl.
// Payloads are only cached if they contain a "results" collection. A ttl <= 0 disables caching for the request.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values, ttl time.Duration) ([]byte, error) {
	apiKey := strings.TrimSpace(c.creds.APIKey())
	if apiKey == "" {
		return nil, ErrMissingCredential
	}
	bearer := isReadAccessToken(apiKey)

	query := url.Values{}
	if !bearer {
		query.Set("api_key", apiKey)
	}
	query.Set("language", c.language)
	for k, v := range params {
		query[k] = v
	}
	// Encode() sorts by key, which makes the URL canonical
	reqURL := c.baseURL + strings.TrimPrefix(endpoint, "/") + "?" + query.Encode()
	keyInput := reqURL
	if bearer {
		keyInput += "#" + apiKey
	}
	key := cache.Key(keyInput)
	logger := c.logger.With(zap.String("endpoint", endpoint))

	// Check cache first
	if ttl > 0 {
		payload, found, err := c.cache.Get(ctx, key)
		if err != nil {
			logger.Error("Couldn't get TMDb response from cache", zap.Error(err))
		} else if found {
			logger.Debug("Hit cache for TMDb response, returning result")
			return payload, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("Couldn't create request object: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	if bearer {
		(&oauth2.Token{AccessToken: apiKey}).SetAuthHeader(req)
	}

	start := time.Now()
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: redact(err)}
	}
	defer res.Body.Close()
	resBody, err := ioutil.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("Couldn't read response body: %v", err)}
	}
	logger.Debug("Got TMDb response", zap.Int("status", res.StatusCode), zap.Duration("duration", time.Since(start)))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &UpstreamError{
			StatusCode:    res.StatusCode,
			StatusMessage: gjson.GetBytes(resBody, "status_message").String(),
			Body:          resBody,
		}
	}
	if !gjson.ValidBytes(resBody) {
		return nil, &ParseError{}
	}

	// Fill cache, but never with error-shaped payloads
	if ttl > 0 && gjson.GetBytes(resBody, "results").Exists() {
		if err := c.cache.Set(ctx, key, resBody, ttl); err != nil {
			logger.Error("Couldn't cache TMDb response", zap.Error(err))
		}
	}

	return resBody, nil
}

// Trending returns the weekly trending movies or TV shows. With Any the list contains both.
func (c *Client) Trending(ctx context.Context, kind Kind, limit int) ([]Item, error) {
	path := kind.path()
	if kind == Any {
		path = "all"
	}
	return c.list(ctx, "trending/"+path+"/week", nil, kind, limit, "trending "+kind.plural())
}

// Popular returns the currently popular movies or TV shows.
func (c *Client) Popular(ctx context.Context, kind Kind, limit int) ([]Item, error) {
	return c.list(ctx, kind.path()+"/popular", nil, kind, limit, "popular "+kind.plural())
}

// TopRated returns the top rated movies or TV shows.
func (c *Client) TopRated(ctx context.Context, kind Kind, limit int) ([]Item, error) {
	return c.list(ctx, kind.path()+"/top_rated", nil, kind, limit, "top rated "+kind.plural())
}

// NowPlaying returns the movies currently in theaters, or for TV the shows that are currently on the air.
func (c *Client) NowPlaying(ctx context.Context, kind Kind, limit int) ([]Item, error) {
	if kind == TV {
		return c.list(ctx, "tv/on_the_air", nil, TV, limit, "on air TV shows")
	}
	return c.list(ctx, "movie/now_playing", nil, Movie, limit, "now playing movies")
}

// DiscoverByKeywords returns the most popular movies or TV shows tagged with any of the given keyword IDs.
// keywords is a comma-separated list. ErrMissingKeywords is returned if it doesn't contain any ID.
func (c *Client) DiscoverByKeywords(ctx context.Context, kind Kind, keywords string, limit int) ([]Item, error) {
	// A missing API key is reported first, like for all other requests
	if strings.TrimSpace(c.creds.APIKey()) == "" {
		return nil, ErrMissingCredential
	}
	ids := ParseKeywords(keywords)
	if len(ids) == 0 {
		return nil, ErrMissingKeywords
	}
	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	params.Set("with_keywords", strings.Join(ids, ","))
	return c.list(ctx, "discover/"+kind.path(), params, kind, limit, "matching "+kind.plural())
}

// TestConnection checks the API key with an uncached request.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.Fetch(ctx, "movie/popular", nil, 0)
	return err
}

func (c *Client) list(ctx context.Context, endpoint string, params url.Values, kind Kind, limit int, what string) ([]Item, error) {
	payload, err := c.Fetch(ctx, endpoint, params, c.cacheAge)
	if err != nil {
		return nil, err
	}
	results := gjson.GetBytes(payload, "results")
	if !results.Exists() {
		return nil, &NotFoundError{What: what}
	}
	return parseItems(results, kind, limit), nil
}

// parseItems converts the "results" array in upstream order, truncated to limit if limit > 0.
func parseItems(results gjson.Result, kind Kind, limit int) []Item {
	var items []Item
	results.ForEach(func(_, value gjson.Result) bool {
		if limit > 0 && len(items) >= limit {
			return false
		}
		items = append(items, parseItem(value, kind))
		return true
	})
	return items
}

func parseItem(value gjson.Result, kind Kind) Item {
	item := Item{
		ID:           value.Get("id").Int(),
		Title:        value.Get("title").String(),
		Name:         value.Get("name").String(),
		PosterPath:   value.Get("poster_path").String(),
		BackdropPath: value.Get("backdrop_path").String(),
		Kind:         kind,
	}
	if rating := value.Get("vote_average"); rating.Exists() && rating.Type == gjson.Number {
		r := rating.Float()
		item.Rating = &r
	}
	if kind == Any {
		if value.Get("media_type").String() == "tv" {
			item.Kind = TV
		} else {
			item.Kind = Movie
		}
	}
	return item
}

// isReadAccessToken reports whether the credential is a TMDb v4 read access token (a JWT) instead of a v3 API key.
func isReadAccessToken(s string) bool {
	return strings.HasPrefix(s, "eyJ") && strings.Count(s, ".") == 2
}

// redact strips the request URL, which contains the API key, from errors returned by the HTTP client.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

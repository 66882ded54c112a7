package background

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Saber4Dev/tmdb-slider/pkg/settings"
)

// maxResponseSize limits how much of a response body is read.
const maxResponseSize = 10 << 20

// Source fetches background sets and display options from the HTTP endpoints.
type Source struct {
	baseURL    string
	httpClient *http.Client
}

// NewSource creates a new Source. baseURL is the address of the service, for example "http://localhost:8080".
func NewSource(baseURL string, timeout time.Duration) *Source {
	return &Source{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Images fetches the background set for the request.
func (s *Source) Images(ctx context.Context, req Request) ([]Image, error) {
	resBody, err := s.get(ctx, req.Path())
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(resBody) {
		return nil, fmt.Errorf("Couldn't parse background set: invalid JSON")
	}
	var images []Image
	gjson.ParseBytes(resBody).ForEach(func(_, value gjson.Result) bool {
		images = append(images, Image{
			URL:   value.Get("url").String(),
			Title: value.Get("title").String(),
		})
		return true
	})
	return images, nil
}

// FetchFunc returns a FetchFunc for the request, for use with a Rotator.
func (s *Source) FetchFunc(req Request) FetchFunc {
	return func(ctx context.Context) ([]Image, error) {
		return s.Images(ctx, req)
	}
}

// Settings fetches the display options of the backgrounds.
func (s *Source) Settings(ctx context.Context) (settings.Background, error) {
	resBody, err := s.get(ctx, "/background-settings")
	if err != nil {
		return settings.Background{}, err
	}
	result := gjson.ParseBytes(resBody)
	return settings.Background{
		ChangeInterval: int(result.Get("changeInterval").Int()),
		Overlay:        result.Get("overlay").Bool(),
		OverlayColor:   result.Get("overlayColor").String(),
		Position:       result.Get("position").String(),
		Size:           result.Get("size").String(),
	}, nil
}

func (s *Source) get(ctx context.Context, path string) ([]byte, error) {
	reqURL := s.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("Couldn't create request object: %v", err)
	}
	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Couldn't GET %v: %v", reqURL, err)
	}
	defer res.Body.Close()
	resBody, err := ioutil.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("Couldn't read response body: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Bad GET response: %v: %v", res.StatusCode, gjson.GetBytes(resBody, "message").String())
	}
	return resBody, nil
}

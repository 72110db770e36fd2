package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultJikanBase is the public Jikan v4 API.
const DefaultJikanBase = "https://api.jikan.moe/v4"

// JikanClient looks up anime cover art through the Jikan API. Jikan
// allows roughly 3 requests per second, so all lookups pass through a
// shared rate limiter before hitting the network.
type JikanClient struct {
	Base    string
	Client  *http.Client
	Limiter *rate.Limiter
}

func NewJikanClient(base string) *JikanClient {
	if base == "" {
		base = DefaultJikanBase
	}
	return &JikanClient{
		Base:    base,
		Client:  &http.Client{Timeout: 6 * time.Second},
		Limiter: rate.NewLimiter(rate.Limit(3), 3),
	}
}

type jikanResponse struct {
	Data []struct {
		Images struct {
			JPG struct {
				LargeImageURL string `json:"large_image_url"`
				ImageURL      string `json:"image_url"`
				SmallImageURL string `json:"small_image_url"`
			} `json:"jpg"`
		} `json:"images"`
	} `json:"data"`
}

// ImageURL queries Jikan for the first anime matching title and returns
// the best available jpg cover, largest size first. An empty result with
// a nil error means the search found nothing usable.
func (j *JikanClient) ImageURL(ctx context.Context, title string) (string, error) {
	if err := j.Limiter.Wait(ctx); err != nil {
		return "", err
	}

	u, err := url.Parse(j.Base + "/anime")
	if err != nil {
		return "", fmt.Errorf("jikan: base url: %w", err)
	}
	q := u.Query()
	q.Set("q", title)
	q.Set("limit", "1")
	q.Set("sfw", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("jikan: build request: %w", err)
	}

	resp, err := j.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("jikan: request: %w", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("jikan: status %d", resp.StatusCode)
	}

	var jr jikanResponse
	if err := json.Unmarshal(body, &jr); err != nil {
		return "", fmt.Errorf("jikan: decode: %w", err)
	}
	if len(jr.Data) == 0 {
		return "", nil
	}

	jpg := jr.Data[0].Images.JPG
	for _, candidate := range []string{jpg.LargeImageURL, jpg.ImageURL, jpg.SmallImageURL} {
		if strings.HasPrefix(candidate, "http") {
			return candidate, nil
		}
	}
	return "", nil
}

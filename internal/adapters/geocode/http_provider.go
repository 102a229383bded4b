package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"order-map-service/internal/domain"
	"order-map-service/internal/platform/obs"
	"order-map-service/internal/ports"
)

type lookupResponse struct {
	Results []struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"results"`
}

// HTTPGeocodeProvider implements GeocodeProvider against the external
// geocode lookup service.
//
// It owns request construction, authentication, and retry/backoff for
// transient failures; callers above this boundary only see a coordinate,
// ErrNoMatch, or a transport error.
type HTTPGeocodeProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewHTTPGeocodeProvider(baseURL, apiKey string) (*HTTPGeocodeProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("geocode base URL is empty")
	}

	return &HTTPGeocodeProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Lookup resolves a province/municipality/barangay triple to coordinates.
// Returns ports.ErrNoMatch when the service has no result for the hierarchy.
func (p *HTTPGeocodeProvider) Lookup(
	ctx context.Context,
	province, municipality, barangay string,
) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.Lookup")(&err)

	province = strings.TrimSpace(province)
	municipality = strings.TrimSpace(municipality)
	barangay = strings.TrimSpace(barangay)
	if province == "" || municipality == "" || barangay == "" {
		return domain.Coordinates{}, errors.New("geocode lookup: province, municipality, and barangay must be non-empty")
	}

	endpoint := p.baseURL + "/geocode/search"

	resp, err := p.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := p.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		q := url.Values{}
		q.Set("province", province)
		q.Set("municipality", municipality)
		q.Set("barangay", barangay)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode lookup: execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode lookup: decode response: %w", err)
	}

	if len(decoded.Results) == 0 {
		return domain.Coordinates{}, ports.ErrNoMatch
	}

	return domain.Coordinates{
		Lat: decoded.Results[0].Lat,
		Lng: decoded.Results[0].Lng,
	}, nil
}

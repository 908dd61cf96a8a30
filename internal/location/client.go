package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/msharif/salat-cli-go/internal/core"
	"github.com/msharif/salat-cli-go/internal/prayer"
)

// Transport performs the raw geolocation lookup.
type Transport interface {
	Lookup(ctx context.Context) (map[string]interface{}, error)
}

// Client queries an ip-api-style JSON endpoint over HTTP.
// Retries automatically on HTTP 5xx or 429 responses with exponential back-off.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a geolocation HTTP client. An empty endpoint means the
// default service; a zero timeout means 10 seconds.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = core.DefaultGeoEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Lookup implements Transport.
func (c *Client) Lookup(ctx context.Context) (map[string]interface{}, error) {
	maxRetries := 3
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries && !isTimeout(err) {
				wait := time.Duration(1<<(attempt-1)) * time.Second
				log.Debug().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("geolocation request failed; retrying")
				time.Sleep(wait)
				continue
			}
			return nil, fmt.Errorf("request failed: %w", err)
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read response body: %w", readErr)
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("geolocation service error (HTTP %d)", resp.StatusCode)
			if attempt < maxRetries {
				wait := time.Duration(1<<(attempt-1)) * time.Second
				log.Debug().Int("status", resp.StatusCode).Int("attempt", attempt).Dur("wait", wait).Msg("geolocation service error; retrying")
				time.Sleep(wait)
				continue
			}
			return nil, lastErr
		}

		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("geolocation request rejected (HTTP %d): %s", resp.StatusCode, string(body))
		}

		var result map[string]interface{}
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return result, nil
	}

	return nil, lastErr
}

// HTTPSource turns a Transport into a Source, mapping transport failures
// onto the location error taxonomy.
type HTTPSource struct {
	transport Transport
}

// NewHTTPSource creates a Source over the given transport. A nil transport
// means the default HTTP client.
func NewHTTPSource(transport Transport) *HTTPSource {
	if transport == nil {
		transport = NewClient("", 0)
	}
	return &HTTPSource{transport: transport}
}

// Current implements Source.
func (s *HTTPSource) Current(ctx context.Context) (prayer.Coordinates, error) {
	payload, err := s.transport.Lookup(ctx)
	if err != nil {
		kind := Unavailable
		if isTimeout(err) {
			kind = Timeout
		}
		return prayer.Coordinates{}, &Error{Kind: kind, Err: err}
	}

	lat, latOK := payload["lat"].(float64)
	lon, lonOK := payload["lon"].(float64)
	if !latOK || !lonOK {
		return prayer.Coordinates{}, &Error{Kind: Unavailable, Err: fmt.Errorf("response missing lat/lon")}
	}

	coords := prayer.Coordinates{Latitude: lat, Longitude: lon}
	if !coords.Valid() {
		return prayer.Coordinates{}, &Error{Kind: Unavailable, Err: fmt.Errorf("response coordinates out of range")}
	}
	return coords, nil
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

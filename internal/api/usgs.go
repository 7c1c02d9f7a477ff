package api

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/quakewatch/internal/models"
	"github.com/thesavant42/quakewatch/internal/observability"
)

const (
	// DefaultEndpoint is the USGS FDSN event query service
	DefaultEndpoint = "https://earthquake.usgs.gov/fdsnws/event/1/query"

	defaultTimeout = 15 * time.Second
	userAgent      = "quakewatch/1.0"
)

// Client fetches earthquake data from the USGS event API
type Client struct {
	httpClient *http.Client
	logger     *log.Logger
	metrics    *observability.Metrics
}

// NewClient creates a client whose requests give up after timeout.
// A zero timeout falls back to 15 seconds; requests never wait forever.
// logger and metrics may be nil.
func NewClient(timeout time.Duration, logger *log.Logger, metrics *observability.Metrics) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// BuildQueryURL appends the fixed format and the filter values to base.
// Values go out verbatim; range checking is left to the server.
// Examples:
//   - DefaultEndpoint + {time, "6", "10"} ->
//     ".../query?format=geojson&limit=10&minmag=6&orderby=time"
func BuildQueryURL(base string, f models.Filter) string {
	params := url.Values{}
	params.Set("format", "geojson")
	params.Set("limit", f.Limit)
	params.Set("minmag", f.MinMagnitude)
	params.Set("orderby", string(f.OrderBy))

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + params.Encode()
}

// parseURL returns nil for anything that can't be requested over HTTP(S)
func parseURL(rawURL string) *url.URL {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil
	}
	return u
}

// FetchEarthquakes runs fetch then decode for one load cycle.
// Returns nil (absent) when there was no body to decode, and a non-nil
// slice, possibly empty, when a body was received.
func (c *Client) FetchEarthquakes(ctx context.Context, rawURL string) []models.Earthquake {
	body := c.FetchBody(ctx, rawURL)
	if body == "" {
		return nil
	}
	return c.ParseEarthquakes(body)
}

// FetchBody performs a single GET and returns the response body as text.
// Bad URLs, non-200 statuses and transport failures are logged and
// reported as an empty string.
func (c *Client) FetchBody(ctx context.Context, rawURL string) string {
	u := parseURL(rawURL)
	if u == nil {
		c.warn("Invalid request URL", "url", rawURL)
		c.countFetch(observability.OutcomeBadURL)
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		c.warn("Failed to create request", "url", rawURL, "error", err)
		c.countFetch(observability.OutcomeBadURL)
		return ""
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/geo+json, application/json")

	start := time.Now()
	defer func() {
		if c.metrics != nil {
			c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
		}
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.warn("Request failed", "url", rawURL, "error", err)
		c.countFetch(observability.OutcomeTransport)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.warn("Problem making the HTTP request", "status", resp.StatusCode, "url", rawURL)
		c.countFetch(observability.OutcomeHTTPStatus)
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return ""
	}

	body, err := readLines(resp.Body)
	if err != nil {
		c.warn("Failed to read response", "url", rawURL, "error", err)
		c.countFetch(observability.OutcomeTransport)
		return ""
	}

	c.countFetch(observability.OutcomeOK)
	if c.logger != nil {
		c.logger.Debug("Fetched earthquake data", "bytes", len(body))
	}
	return body
}

// readLines joins every line of r with the line terminators removed.
// Invalid UTF-8 is replaced with U+FFFD.
func readLines(r io.Reader) (string, error) {
	var b strings.Builder
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		b.WriteString(strings.ToValidUTF8(line, "�"))
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return "", err
		}
	}
}

func (c *Client) countFetch(outcome string) {
	if c.metrics != nil {
		c.metrics.FetchRequests.WithLabelValues(outcome).Inc()
	}
}

func (c *Client) warn(msg string, keyvals ...interface{}) {
	if c.logger != nil {
		c.logger.Warn(msg, keyvals...)
	}
}

// Package web is the thin frontend tier: it forwards API calls to the
// backend with a bounded timeout so a stalled backend produces a fast,
// explicit connectivity error instead of a hanging page.
package web

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const defaultTimeout = 5 * time.Second

// hopHeaders are connection-scoped and must not be forwarded.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Proxy forwards /api/* requests to the backend, streaming bodies and
// passing cookies through in both directions.
type Proxy struct {
	backendURL string
	client     *http.Client
	log        zerolog.Logger
}

// NewProxy builds a proxy for the given backend base URL. A non-positive
// timeout falls back to 5 seconds.
func NewProxy(backendURL string, timeout time.Duration, log zerolog.Logger) *Proxy {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Proxy{
		backendURL: strings.TrimRight(backendURL, "/"),
		client:     &http.Client{Timeout: timeout},
		log:        log,
	}
}

// NewRouter returns the Echo instance serving the frontend tier.
func NewRouter(p *Proxy) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	e.Any("/api/*", p.Forward)

	return e
}

// Forward relays the request to the backend. Timeouts and connection
// failures become a 502 with a stable JSON body rather than a hung request.
func (p *Proxy) Forward(c echo.Context) error {
	req := c.Request()

	target := p.backendURL + req.URL.Path
	if req.URL.RawQuery != "" {
		target += "?" + req.URL.RawQuery
	}

	upstream, err := http.NewRequestWithContext(req.Context(), req.Method, target, req.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	copyHeaders(upstream.Header, req.Header)

	resp, err := p.client.Do(upstream)
	if err != nil {
		p.log.Warn().Err(err).Str("target", target).Msg("backend unreachable")
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "backend unreachable"})
	}
	defer resp.Body.Close()

	// Set-Cookie must pass through untouched so the session cookie reaches
	// the browser.
	copyHeaders(c.Response().Header(), resp.Header)
	c.Response().WriteHeader(resp.StatusCode)
	_, err = io.Copy(c.Response(), resp.Body)
	return err
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		if isHopHeader(key) {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

func isHopHeader(name string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}

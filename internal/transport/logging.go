// Package transport holds http.RoundTripper wrappers shared by the auth clients.
package transport

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"regexp"
	"time"

	"github.com/tinywasm/customer/internal/logger"
)

// DefaultMaxLogLength caps a single request or response dump.
const DefaultMaxLogLength = 4 * 1024

var ErrNilRequest = errors.New("request is nil")

var masks = []struct {
	re   *regexp.Regexp
	repl []byte
}{
	{regexp.MustCompile(`("password"\s*:\s*)"[^"]*"`), []byte(`$1"***"`)},
	{regexp.MustCompile(`("(?:access|refresh)_token"\s*:\s*)"[^"]*"`), []byte(`$1"***"`)},
	{regexp.MustCompile(`(Bearer )\S+`), []byte(`${1}***`)},
	{regexp.MustCompile(`(?i)(apikey: )\S+`), []byte(`${1}***`)},
}

// LogTransport dumps requests and responses at debug level. Passwords and
// tokens are masked before anything is written.
type LogTransport struct {
	next         http.RoundTripper
	maxLogLength int
}

// NewLogTransport wraps next. A non-positive maxLogLength selects DefaultMaxLogLength.
func NewLogTransport(next http.RoundTripper, maxLogLength int) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if maxLogLength <= 0 {
		maxLogLength = DefaultMaxLogLength
	}
	return &LogTransport{next: next, maxLogLength: maxLogLength}
}

func (t *LogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if !logger.IsDebugLevel() {
		return t.next.RoundTrip(req)
	}

	ctx := req.Context()
	requestDump := t.dump(httputil.DumpRequestOut(req, true))
	start := time.Now()

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		logger.Debugf(ctx, "Request failed: %s %s | Error: %v", req.Method, req.URL.Path, err)
		return nil, err
	}

	logger.Debugf(ctx, "%s %s [%d] %s\nRequest: %s\nResponse: %s",
		req.Method, req.URL.Path, resp.StatusCode, time.Since(start),
		requestDump, t.dump(httputil.DumpResponse(resp, true)))
	return resp, nil
}

func (t *LogTransport) dump(data []byte, err error) string {
	if err != nil {
		return err.Error()
	}
	data = Mask(data)
	if len(data) > t.maxLogLength {
		return string(data[:t.maxLogLength]) + "... [truncated]"
	}
	return string(data)
}

// Mask replaces password and token values with ***.
func Mask(data []byte) []byte {
	for _, m := range masks {
		data = m.re.ReplaceAll(data, m.repl)
	}
	return data
}

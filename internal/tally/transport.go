package tally

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Transport issues one blocking POST per call against a fixed
// endpoint. It holds no per-request state; concurrent Sends are
// independent.
type Transport struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

// NewTransport binds a transport to one endpoint URL with a default
// per-request timeout.
func NewTransport(endpoint string, timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Transport{
		endpoint: strings.TrimSpace(endpoint),
		timeout:  timeout,
		client:   &http.Client{},
	}
}

// Endpoint reports the bound endpoint URL.
func (t *Transport) Endpoint() string { return t.endpoint }

// Send posts envelope as text/xml and returns the whole response body
// as an opaque string. The timeout is enforced through the request
// context: a response arriving after the deadline is abandoned, never
// awaited. There is no automatic retry; retry policy belongs to the
// caller, which can branch on the returned *TransportError kind.
func (t *Transport) Send(ctx context.Context, envelope string) (string, error) {
	if t.endpoint == "" {
		return "", &TransportError{Kind: TransportConnect, Endpoint: "", Err: errors.New("endpoint required")}
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(envelope))
	if err != nil {
		return "", &TransportError{Kind: TransportConnect, Endpoint: t.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "text/xml")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", t.classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", t.classify(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &TransportError{
			Kind:     TransportRejected,
			Endpoint: t.endpoint,
			Err:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	return string(body), nil
}

// classify splits timeout failures from connection-level ones so
// callers can retry the former and stop on the latter.
func (t *Transport) classify(err error) *TransportError {
	kind := TransportConnect
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = TransportTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = TransportTimeout
	}
	return &TransportError{Kind: kind, Endpoint: t.endpoint, Err: err}
}

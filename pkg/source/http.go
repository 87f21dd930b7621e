package source

import (
	"context"
	"io"
	"net/http"
	"time"

	errs "github.com/matzehuels/bookstack/pkg/errors"
)

const (
	httpTimeout = 30 * time.Second
	// maxBody caps the size of a fetched book list.
	maxBody = 8 << 20
)

// HTTP fetches books with a single GET request.
type HTTP struct {
	URL    string
	client *http.Client
}

// NewHTTP returns an HTTP source. A nil client uses a client with a 30s timeout.
func NewHTTP(url string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: httpTimeout}
	}
	return &HTTP{URL: url, client: client}
}

func (h *HTTP) Name() string { return h.URL }

func (h *HTTP) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "book url %s", h.URL)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "fetch %s", h.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.New(errs.ErrCodeNetwork, "fetch %s: status %d", h.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeNetwork, err, "read %s", h.URL)
	}
	if len(data) > maxBody {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "fetch %s: body exceeds %d bytes", h.URL, maxBody)
	}
	return data, nil
}

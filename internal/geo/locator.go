// Package geo resolves a coarse city/country for a submitter IP. Lookups are
// best effort: callers log failures and continue without a location.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
)

var ErrLookupFailed = errors.New("geo lookup failed")

type Locator interface {
	Locate(ctx context.Context, ip string) (*domain.Location, error)
}

// Nop never resolves a location.
type Nop struct{}

func (Nop) Locate(context.Context, string) (*domain.Location, error) { return nil, nil }

// HTTPLocator queries an ip-api.com compatible JSON endpoint. URLTemplate holds
// one %s for the escaped IP, e.g. http://ip-api.com/json/%s?fields=status,city,country.
type HTTPLocator struct {
	URLTemplate string
	Client      *http.Client
}

func NewHTTPLocator(urlTemplate string, timeout time.Duration) *HTTPLocator {
	return &HTTPLocator{
		URLTemplate: urlTemplate,
		Client:      &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Status  string `json:"status"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Locate returns nil, nil for addresses that are not publicly routable.
func (l *HTTPLocator) Locate(ctx context.Context, ip string) (*domain.Location, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil || !isPublic(addr) {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf(l.URLTemplate, url.PathEscape(addr.String())), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrLookupFailed, err)
	}
	if body.Status != "" && body.Status != "success" {
		return nil, fmt.Errorf("%w: provider status %q", ErrLookupFailed, body.Status)
	}
	if body.City == "" && body.Country == "" {
		return nil, nil
	}

	return &domain.Location{City: body.City, Country: body.Country}, nil
}

func isPublic(a netip.Addr) bool {
	a = a.Unmap()
	return a.IsValid() &&
		!a.IsLoopback() &&
		!a.IsPrivate() &&
		!a.IsLinkLocalUnicast() &&
		!a.IsUnspecified() &&
		!a.IsMulticast()
}

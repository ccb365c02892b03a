// Package authority resolves secondary identifiers for recognized
// names: VIAF for persons, GeoNames for places. All lookups are
// synchronous and best-effort; a miss or transport error just means no
// identifier.
package authority

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// DefaultVIAFBaseURL is the public VIAF AutoSuggest endpoint.
const DefaultVIAFBaseURL = "https://viaf.org/viaf"

// VIAF looks up library authority identifiers for personal names.
type VIAF struct {
	BaseURL    string
	HTTPClient *http.Client
}

type viafSuggest struct {
	Result []struct {
		Term   string `json:"term"`
		VIAFID string `json:"viafid"`
	} `json:"result"`
}

// Lookup returns the VIAF identifier for the best AutoSuggest match,
// or ok=false when there is none.
func (v *VIAF) Lookup(ctx context.Context, name string) (string, bool) {
	base := v.BaseURL
	if base == "" {
		base = DefaultVIAFBaseURL
	}
	u := base + "/AutoSuggest?query=" + url.QueryEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", false
	}
	resp, err := httpClient(v.HTTPClient).Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	var payload viafSuggest
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", false
	}
	if len(payload.Result) == 0 || payload.Result[0].VIAFID == "" {
		return "", false
	}
	return payload.Result[0].VIAFID, true
}

func httpClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: 15 * time.Second}
}

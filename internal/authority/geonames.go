package authority

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultGeoNamesBaseURL is the public GeoNames web service.
const DefaultGeoNamesBaseURL = "http://api.geonames.org"

// GeoNames looks up gazetteer identifiers for place names. The public
// service requires a registered username.
type GeoNames struct {
	BaseURL    string
	Username   string
	HTTPClient *http.Client
}

type geoNamesSearch struct {
	Geonames []struct {
		GeonameID int    `json:"geonameId"`
		Name      string `json:"name"`
	} `json:"geonames"`
}

// Lookup returns the GeoNames identifier for the top search hit, or
// ok=false when there is none.
func (g *GeoNames) Lookup(ctx context.Context, name string) (string, bool) {
	base := g.BaseURL
	if base == "" {
		base = DefaultGeoNamesBaseURL
	}
	q := url.Values{}
	q.Set("q", name)
	q.Set("maxRows", "1")
	q.Set("username", g.Username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/searchJSON?"+q.Encode(), nil)
	if err != nil {
		return "", false
	}
	resp, err := httpClient(g.HTTPClient).Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	var payload geoNamesSearch
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", false
	}
	if len(payload.Geonames) == 0 {
		return "", false
	}
	return strconv.Itoa(payload.Geonames[0].GeonameID), true
}

// Package spotlight calls a DBpedia-Spotlight-compatible entity
// recognition endpoint.
package spotlight

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/archivetools/eadspot/pkg/eadspot/internalerr"
	"github.com/archivetools/eadspot/pkg/eadspot/resource"
)

// DefaultBaseURL is the public Spotlight endpoint for English.
const DefaultBaseURL = "https://api.dbpedia-spotlight.org/en"

// Client sends text blobs to the /annotate endpoint. It keeps its own
// call bookkeeping; the orchestrator reads it once for the summary
// line. Not safe for concurrent use, which the single-threaded
// processing loop never needs.
type Client struct {
	BaseURL    string
	Confidence float64
	Support    int
	Types      string

	HTTPClient *http.Client

	calls   int
	elapsed time.Duration
}

// Wire format: Spotlight encodes numbers as strings under @-keys.
type wireResponse struct {
	Text      string         `json:"@text"`
	Resources []wireResource `json:"Resources"`
}

type wireResource struct {
	URI             string `json:"@URI"`
	Support         string `json:"@support"`
	Types           string `json:"@types"`
	SurfaceForm     string `json:"@surfaceForm"`
	Offset          string `json:"@offset"`
	SimilarityScore string `json:"@similarityScore"`
}

// Annotate sends one text blob for recognition and returns the text as
// echoed by the service together with the recognized records. Transport
// and HTTP errors are wrapped in ErrServiceFailure; callers treat them
// as fatal for the run.
func (c *Client) Annotate(ctx context.Context, text string) (string, []resource.Record, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("confidence", strconv.FormatFloat(c.Confidence, 'f', -1, 64))
	form.Set("support", strconv.Itoa(c.Support))
	if c.Types != "" {
		form.Set("types", c.Types)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(base, "/")+"/annotate", strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", internalerr.ErrServiceFailure, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	c.calls++
	c.elapsed += time.Since(start)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", internalerr.ErrServiceFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("%w: HTTP %d from %s", internalerr.ErrServiceFailure, resp.StatusCode, base)
	}

	var payload wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", nil, fmt.Errorf("%w: decode response: %v", internalerr.ErrServiceFailure, err)
	}

	records := make([]resource.Record, 0, len(payload.Resources))
	for _, wr := range payload.Resources {
		rec := resource.Record{
			SurfaceForm: wr.SurfaceForm,
			URI:         wr.URI,
			Types:       wr.Types,
		}
		rec.SimilarityScore, _ = strconv.ParseFloat(wr.SimilarityScore, 64)
		rec.Support, _ = strconv.Atoi(wr.Support)
		rec.Offset, _ = strconv.Atoi(wr.Offset)
		records = append(records, rec)
	}
	return payload.Text, records, nil
}

// Calls returns the count and cumulative duration of service calls
// made so far.
func (c *Client) Calls() (int, time.Duration) {
	return c.calls, c.elapsed
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 60 * time.Second}
}

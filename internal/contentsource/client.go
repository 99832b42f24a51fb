// Package contentsource is the HTTP client for the headless content source's
// delivery API. It is the only place upstream I/O happens; everything above
// it works on decoded entries.
package contentsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"aniverse/pkg/utils"
)

// Content kinds recognized by the source.
const (
	KindAnime       = "anime"
	KindManga       = "manga"
	KindGenre       = "genre"
	KindEpisode     = "episode"
	KindHomepage    = "homepage"
	KindDailyUpdate = "daily_update"
	KindOrder       = "order"
)

// Options narrows a FetchAll call. Zero value fetches everything of a kind.
type Options struct {
	IncludeReferences []string          // reference fields to dereference
	SortBy            string            // field to sort on
	Descending        bool              // sort direction, ascending by default
	Limit             int               // max entries, 0 means source default
	Equals            map[string]any    // field equality predicates
	ReferenceIn       map[string]string // reference field -> referenced entry uid
}

// Client talks to the delivery API. Construct it explicitly and pass it
// around; there is no package-level instance.
type Client struct {
	HTTP        *http.Client
	BaseURL     string
	APIKey      string
	Token       string
	Environment string
}

func NewClient(cfg utils.ContentstackConfig) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 12 * time.Second},
		BaseURL:     cfg.DeliveryURL(),
		APIKey:      cfg.APIKey,
		Token:       cfg.DeliveryToken,
		Environment: cfg.Environment,
	}
}

type entriesEnvelope struct {
	Entries json.RawMessage `json:"entries"`
}

type entryEnvelope struct {
	Entry json.RawMessage `json:"entry"`
}

// FetchAll requests all entries of a kind matching opts and decodes the
// entries array into dst (a pointer to a slice of the model type). Any
// network, auth, or decode failure is returned as an error; callers above
// the resolver boundary decide how to degrade.
func (c *Client) FetchAll(ctx context.Context, kind string, opts Options, dst any) error {
	u, err := url.Parse(fmt.Sprintf("%s/v3/content_types/%s/entries", c.BaseURL, kind))
	if err != nil {
		return fmt.Errorf("%s: base url: %w", kind, err)
	}

	q := u.Query()
	q.Set("environment", c.Environment)
	for _, ref := range opts.IncludeReferences {
		q.Add("include[]", ref)
	}
	if opts.SortBy != "" {
		if opts.Descending {
			q.Set("desc", opts.SortBy)
		} else {
			q.Set("asc", opts.SortBy)
		}
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if pred := buildQuery(opts); pred != nil {
		raw, err := json.Marshal(pred)
		if err != nil {
			return fmt.Errorf("%s: encode query: %w", kind, err)
		}
		q.Set("query", string(raw))
	}
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}

	var env entriesEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%s: decode envelope: %w", kind, err)
	}
	if len(env.Entries) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Entries, dst); err != nil {
		return fmt.Errorf("%s: decode entries: %w", kind, err)
	}
	return nil
}

// FetchOne requests a single entry by uid and decodes it into dst (a pointer
// to the model type).
func (c *Client) FetchOne(ctx context.Context, kind, uid string, dst any) error {
	u := fmt.Sprintf("%s/v3/content_types/%s/entries/%s?environment=%s",
		c.BaseURL, kind, url.PathEscape(uid), url.QueryEscape(c.Environment))

	body, err := c.get(ctx, u)
	if err != nil {
		return fmt.Errorf("%s/%s: %w", kind, uid, err)
	}

	var env entryEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%s/%s: decode envelope: %w", kind, uid, err)
	}
	if len(env.Entry) == 0 {
		return fmt.Errorf("%s/%s: empty entry", kind, uid)
	}
	if err := json.Unmarshal(env.Entry, dst); err != nil {
		return fmt.Errorf("%s/%s: decode entry: %w", kind, uid, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("api_key", c.APIKey)
	req.Header.Set("access_token", c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// buildQuery merges equality and reference-containment predicates into the
// source's query document, e.g.
// {"anime_reference": {"$in_query": {"uid": "anime-42"}}}.
func buildQuery(opts Options) map[string]any {
	if len(opts.Equals) == 0 && len(opts.ReferenceIn) == 0 {
		return nil
	}
	pred := make(map[string]any, len(opts.Equals)+len(opts.ReferenceIn))
	for field, v := range opts.Equals {
		pred[field] = v
	}
	for field, uid := range opts.ReferenceIn {
		pred[field] = map[string]any{"$in_query": map[string]any{"uid": uid}}
	}
	return pred
}

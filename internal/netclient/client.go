// Package netclient implements the HTTP client side of the agent's
// outbound endpoints against the local aggregation server: /health,
// /events, /afk, /summary/total-time, /summary/range, /summary/buckets,
// and /goals (GoalService's per-cycle fetch of goal definitions).
// Grounded on crates/common/src/client.rs's Transport
// enum (DevTcp/ProdUds) and its get/post_json helpers, but built on
// net/http's own Unix-socket dialing instead of porting that file's
// hand-rolled HTTP/1.1-over-UnixStream framing (uds_http/read_chunked/
// read_line): net/http.Client with a DialContext that ignores the
// dialed address and always connects to the configured socket gives the
// same dev-TCP/release-UDS split for a fraction of the code, and without
// a hand-rolled chunked-transfer-encoding reader to keep correct.
package netclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/samwahome/skopio-desktop/internal/config"
	"github.com/samwahome/skopio-desktop/internal/store"
)

const connectTimeout = 10 * time.Second

// Client is the interface GoalService depends on (BufferedTrackingService
// uses its PostEvents/PostAFKEvents half as trackingsvc.Syncer), so tests
// can substitute a fake instead of
// running a real server. Keeping it narrow avoids the cyclic-dependency
// trap: those callers only ever see this interface, never the concrete
// HTTPClient type.
type Client interface {
	Health(ctx context.Context) error
	PostEvents(ctx context.Context, events []store.Event) error
	PostAFKEvents(ctx context.Context, events []store.AFKEvent) error
	TotalTime(ctx context.Context, start, end time.Time, apps, categories []string) (time.Duration, error)
	SummaryRange(ctx context.Context, start, end time.Time) (json.RawMessage, error)
	SummaryBuckets(ctx context.Context, start, end time.Time, bucket string) (json.RawMessage, error)
	Goals(ctx context.Context) ([]Goal, error)
}

// Goal mirrors the aggregation server's goal definition, round-tripped
// by GoalService each evaluation cycle rather than mirrored into local
// storage. Grounded on crates/db/src/desktop/goals.rs's Goal/TimeSpan.
type Goal struct {
	ID                   int64    `json:"id"`
	Name                 string   `json:"name"`
	TargetSeconds        int64    `json:"target_seconds"`
	TimeSpan             string   `json:"time_span"`
	UseApps              bool     `json:"use_apps"`
	UseCategories        bool     `json:"use_categories"`
	IgnoreNoActivityDays bool     `json:"ignore_no_activity_days"`
	Apps                 []string `json:"apps"`
	Categories           []string `json:"categories"`
	ExcludedDays         []string `json:"excluded_days"`
}

// HTTPClient implements Client over net/http, dialing either a Unix
// domain socket (release builds, cfg.Server.Socket set) or TCP loopback
// (dev builds). Both paths send the same bearer token on every request.
type HTTPClient struct {
	base      string
	authToken string
	http      *http.Client
}

// New builds an HTTPClient from the current server config. A non-empty
// Socket selects the Unix domain socket transport; otherwise it dials
// Host:Port over TCP, matching Transport::detect()'s dev/release split.
func New(cfg config.ServerConfig) *HTTPClient {
	if cfg.Socket != "" {
		return &HTTPClient{
			base:      "http://unix",
			authToken: cfg.AuthToken,
			http: &http.Client{
				Timeout: connectTimeout,
				Transport: &http.Transport{
					DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
						d := net.Dialer{Timeout: connectTimeout}
						return d.DialContext(ctx, "unix", cfg.Socket)
					},
				},
			},
		}
	}

	return &HTTPClient{
		base:      fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		authToken: cfg.AuthToken,
		http: &http.Client{
			Timeout: connectTimeout,
		},
	}
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("netclient: %s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Health calls the server's /health endpoint. Used by ready.go's
// readiness probe and surfaced as Status for the UI layer.
func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// PostEvents pushes a batch of closed activity spans. Satisfies
// trackingsvc.Syncer.
func (c *HTTPClient) PostEvents(ctx context.Context, events []store.Event) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/events", eventsPayload(events))
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// PostAFKEvents pushes a batch of closed AFK spans. Satisfies
// trackingsvc.Syncer.
func (c *HTTPClient) PostAFKEvents(ctx context.Context, events []store.AFKEvent) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/afk", afkPayload(events))
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// totalTimeQuery mirrors SummaryQueryInput, posted as a JSON body rather
// than query parameters. include_afk is always false here: GoalService
// evaluates a goal against active time only, matching goals_service.rs's
// evaluate_goal query.
type totalTimeQuery struct {
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Apps       []string  `json:"apps,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	IncludeAFK bool      `json:"include_afk"`
}

// TotalTime asks the server for total tracked time in [start, end),
// optionally narrowed to the given apps and/or categories. Used by
// GoalService to evaluate whether a goal is met, mirroring
// SummaryQueryInput's apps/categories filters. The server responds with
// a bare JSON integer (seconds), not an object.
func (c *HTTPClient) TotalTime(ctx context.Context, start, end time.Time, apps, categories []string) (time.Duration, error) {
	body := totalTimeQuery{
		Start:      start.UTC(),
		End:        end.UTC(),
		Apps:       apps,
		Categories: categories,
		IncludeAFK: false,
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/summary/total-time", body)
	if err != nil {
		return 0, err
	}
	var totalSeconds int64
	if err := c.do(req, &totalSeconds); err != nil {
		return 0, err
	}
	return time.Duration(totalSeconds) * time.Second, nil
}

// Goals fetches the current goal definitions. GoalService calls this
// once per evaluation cycle rather than mirroring goals into the local
// store.
func (c *HTTPClient) Goals(ctx context.Context) ([]Goal, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/goals", nil)
	if err != nil {
		return nil, err
	}
	var out []Goal
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SummaryRange round-trips the server's /summary/range response
// unparsed: definitional only, consumed by a UI this agent doesn't have.
func (c *HTTPClient) SummaryRange(ctx context.Context, start, end time.Time) (json.RawMessage, error) {
	path := fmt.Sprintf("/summary/range?start=%s&end=%s", start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	return c.getRaw(ctx, path)
}

// SummaryBuckets round-trips the server's /summary/buckets response
// unparsed, same rationale as SummaryRange.
func (c *HTTPClient) SummaryBuckets(ctx context.Context, start, end time.Time, bucket string) (json.RawMessage, error) {
	path := fmt.Sprintf("/summary/buckets?start=%s&end=%s&bucket=%s", start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339), bucket)
	return c.getRaw(ctx, path)
}

func (c *HTTPClient) getRaw(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type eventPayload struct {
	ID           string `json:"id"`
	Timestamp    int64  `json:"timestamp"`
	EndTimestamp *int64 `json:"end_timestamp,omitempty"`
	DurationS    *int64 `json:"duration,omitempty"`
	Category     string `json:"category,omitempty"`
	AppName      string `json:"app_name"`
	EntityName   string `json:"entity_name,omitempty"`
	EntityType   string `json:"entity_type,omitempty"`
	ProjectName  string `json:"project_name,omitempty"`
	ProjectPath  string `json:"project_path,omitempty"`
	BranchName   string `json:"branch_name,omitempty"`
	LanguageName string `json:"language_name,omitempty"`
	SourceName   string `json:"source_name"`
}

func eventsPayload(events []store.Event) []eventPayload {
	out := make([]eventPayload, len(events))
	for i, e := range events {
		out[i] = eventPayload{
			ID:           e.ID,
			Timestamp:    e.Timestamp.UTC().Unix(),
			EndTimestamp: unixTimePtr(e.EndTimestamp),
			DurationS:    e.DurationS,
			Category:     e.Category,
			AppName:      e.AppName,
			EntityName:   e.EntityName,
			EntityType:   e.EntityType,
			ProjectName:  e.ProjectName,
			ProjectPath:  e.ProjectPath,
			BranchName:   e.BranchName,
			LanguageName: e.LanguageName,
			SourceName:   e.SourceName,
		}
	}
	return out
}

type afkEventPayload struct {
	ID        string `json:"id"`
	AFKStart  int64  `json:"afk_start"`
	AFKEnd    *int64 `json:"afk_end,omitempty"`
	DurationS *int64 `json:"duration,omitempty"`
}

func afkPayload(events []store.AFKEvent) []afkEventPayload {
	out := make([]afkEventPayload, len(events))
	for i, e := range events {
		out[i] = afkEventPayload{
			ID:        e.ID,
			AFKStart:  e.AFKStart.UTC().Unix(),
			AFKEnd:    unixTimePtr(e.AFKEnd),
			DurationS: e.DurationS,
		}
	}
	return out
}

// unixTimePtr converts an optional timestamp to unix seconds. Events and
// AFK spans serialize timestamps as UNIX-seconds integers, matching the
// server's ts_seconds_option serde convention for EventInput/AFKEventInput.
func unixTimePtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	s := t.UTC().Unix()
	return &s
}

// Package mailinglist subscribes people to a Mailchimp audience.
package mailinglist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultServerPrefix is the Mailchimp data center used when none is set.
const DefaultServerPrefix = "us16"

var (
	// ErrNotConfigured is returned when the API key or list id is missing.
	ErrNotConfigured = errors.New("mailinglist: credentials not configured")
	// ErrAlreadySubscribed is returned when the address is already on the list.
	ErrAlreadySubscribed = errors.New("mailinglist: already a member")
	// ErrMalformedResponse is returned when a response body is not JSON.
	ErrMalformedResponse = errors.New("mailinglist: malformed response")
)

// APIError is an unexpected error response from the mailing provider.
type APIError struct {
	Status int
	Title  string
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mailinglist: upstream %d %s: %s", e.Status, e.Title, e.Detail)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// SplitName splits a display name into first and last name merge fields.
// The first space separated token is the first name; the rest is the last.
func SplitName(name string) (first, last string) {
	parts := strings.Split(name, " ")
	first = parts[0]
	if first == "" {
		first = name
	}
	return first, strings.Join(parts[1:], " ")
}

// Subscriber is a person joining the list.
type Subscriber struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Config holds the Mailchimp credentials.
type Config struct {
	APIKey       string
	ListID       string
	ServerPrefix string
	// BaseURL overrides https://{prefix}.api.mailchimp.com, for tests.
	BaseURL string
}

// Client calls the Mailchimp members API.
type Client struct {
	cfg  Config
	http *http.Client
}

// New returns a Client. A nil httpClient gets a 10 second timeout.
func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.ServerPrefix == "" {
		cfg.ServerPrefix = DefaultServerPrefix
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.ListID != ""
}

type memberRequest struct {
	EmailAddress string       `json:"email_address"`
	Status       string       `json:"status"`
	MergeFields  memberMerges `json:"merge_fields"`
}

type memberMerges struct {
	FirstName string `json:"FNAME"`
	LastName  string `json:"LNAME"`
}

func (c *Client) membersURL() string {
	base := c.cfg.BaseURL
	if base == "" {
		base = "https://" + c.cfg.ServerPrefix + ".api.mailchimp.com"
	}
	return strings.TrimRight(base, "/") + "/3.0/lists/" + c.cfg.ListID + "/members"
}

// Subscribe adds s to the list. It does not retry.
func (c *Client) Subscribe(ctx context.Context, s Subscriber) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	first, last := SplitName(s.Name)
	body, err := json.Marshal(memberRequest{
		EmailAddress: s.Email,
		Status:       "subscribed",
		MergeFields:  memberMerges{FirstName: first, LastName: last},
	})
	if err != nil {
		return fmt.Errorf("mailinglist: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.membersURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mailinglist: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mailinglist: post member: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("mailinglist: read response: %w", err)
	}
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("%w: status %d", ErrMalformedResponse, resp.StatusCode)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	title := gjson.GetBytes(raw, "title").String()
	if resp.StatusCode == http.StatusBadRequest && title == "Member Exists" {
		return ErrAlreadySubscribed
	}
	return &APIError{
		Status: resp.StatusCode,
		Title:  title,
		Detail: gjson.GetBytes(raw, "detail").String(),
	}
}

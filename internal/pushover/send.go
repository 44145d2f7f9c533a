// ABOUTME: Send operation for the Pushover Message API.
// ABOUTME: Builds the form payload with truncation and priority policy.
package pushover

import (
	"context"
	"net/url"
	"strconv"
)

// Field limits enforced by truncation rather than rejection.
const (
	maxMessageLen  = 1024
	maxTitleLen    = 250
	maxURLLen      = 512
	maxURLTitleLen = 100
)

// Emergency-priority notifications must carry a retry schedule.
const (
	emergencyRetrySeconds  = 60
	emergencyExpireSeconds = 3600
)

// SendOptions captures the fields for the Message API.
type SendOptions struct {
	Message   string
	Title     string
	Priority  int
	Sound     string
	Device    string
	URL       string
	URLTitle  string
	HTML      bool
	TTL       *int
	Timestamp *int64
}

// SendResult is the shaped response to a send request. Raw retains
// the full parsed body for diagnostic use.
type SendResult struct {
	Success   bool           `json:"success"`
	RequestID string         `json:"request_id"`
	Errors    []string       `json:"errors"`
	Raw       map[string]any `json:"raw,omitempty"`
}

// SendMessage dispatches a notification. Over-long fields are
// truncated, priority 0 is omitted from the payload, emergency
// priority injects the retry schedule, and unknown sounds are dropped
// without error.
func (c *Client) SendMessage(ctx context.Context, opts SendOptions) (*SendResult, error) {
	values := url.Values{}
	values.Set("token", c.token)
	values.Set("user", c.userKey)
	values.Set("message", truncate(opts.Message, maxMessageLen))

	if opts.Title != "" {
		values.Set("title", truncate(opts.Title, maxTitleLen))
	}
	if opts.Priority != 0 {
		values.Set("priority", strconv.Itoa(opts.Priority))
		if opts.Priority == PriorityEmergency {
			values.Set("retry", strconv.Itoa(emergencyRetrySeconds))
			values.Set("expire", strconv.Itoa(emergencyExpireSeconds))
		}
	}
	if ValidSound(opts.Sound) {
		values.Set("sound", opts.Sound)
	}
	if opts.Device != "" {
		values.Set("device", opts.Device)
	}
	if opts.URL != "" {
		values.Set("url", truncate(opts.URL, maxURLLen))
	}
	if opts.URLTitle != "" {
		values.Set("url_title", truncate(opts.URLTitle, maxURLTitleLen))
	}
	if opts.HTML {
		values.Set("html", "1")
	}
	if opts.TTL != nil {
		values.Set("ttl", strconv.Itoa(*opts.TTL))
	}
	if opts.Timestamp != nil {
		values.Set("timestamp", strconv.FormatInt(*opts.Timestamp, 10))
	}

	payload, err := c.postForm(ctx, "/messages.json", values)
	if err != nil {
		return nil, err
	}

	return &SendResult{
		Success:   intField(payload, "status") == 1,
		RequestID: stringField(payload, "request"),
		Errors:    stringSlice(payload, "errors"),
		Raw:       payload,
	}, nil
}

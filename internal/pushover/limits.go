// ABOUTME: Application limits operation for the Pushover API.
// ABOUTME: Reports monthly message quota usage.
package pushover

import (
	"context"
	"net/url"
)

// LimitsResult is the shaped response to a limits request. Reset is a
// Unix timestamp for when the quota renews.
type LimitsResult struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// GetLimits fetches the application's monthly message limits.
func (c *Client) GetLimits(ctx context.Context) (*LimitsResult, error) {
	query := url.Values{}
	query.Set("token", c.token)

	payload, err := c.getJSON(ctx, "/apps/limits.json", query)
	if err != nil {
		return nil, err
	}

	return &LimitsResult{
		Limit:     intField(payload, "limit"),
		Remaining: intField(payload, "remaining"),
		Reset:     int64Field(payload, "reset"),
	}, nil
}

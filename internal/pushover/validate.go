// ABOUTME: User validation operation for the Pushover API.
// ABOUTME: Checks the user key and lists registered devices.
package pushover

import (
	"context"
	"net/url"
)

// ValidationResult is the shaped response to a validate request.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Devices  []string `json:"devices"`
	Licenses []string `json:"licenses"`
	Errors   []string `json:"errors"`
}

// ValidateUser checks the configured user key, optionally scoped to a
// single device name.
func (c *Client) ValidateUser(ctx context.Context, device string) (*ValidationResult, error) {
	values := url.Values{}
	values.Set("token", c.token)
	values.Set("user", c.userKey)
	if device != "" {
		values.Set("device", device)
	}

	payload, err := c.postForm(ctx, "/users/validate.json", values)
	if err != nil {
		return nil, err
	}

	return &ValidationResult{
		Valid:    intField(payload, "status") == 1,
		Devices:  stringSlice(payload, "devices"),
		Licenses: stringSlice(payload, "licenses"),
		Errors:   stringSlice(payload, "errors"),
	}, nil
}

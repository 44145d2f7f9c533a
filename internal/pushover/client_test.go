// ABOUTME: Tests for the Pushover API client.
// ABOUTME: Exercises payload shaping, truncation, and connection reuse.
package pushover

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

// stubAPI records the last request and replies with a fixed JSON body.
type stubAPI struct {
	server   *httptest.Server
	lastPath string
	lastForm url.Values
	lastURL  *url.URL
	calls    int
}

func newStubAPI(t *testing.T, body string) *stubAPI {
	t.Helper()
	stub := &stubAPI{}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls++
		stub.lastPath = r.URL.Path
		stub.lastURL = r.URL
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		stub.lastForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *stubAPI) client() *Client {
	return NewClient("test_token", "test_user_key", WithBaseURL(s.server.URL))
}

func TestSendMessageSuccess(t *testing.T) {
	stub := newStubAPI(t, `{"status":1,"request":"req123"}`)

	result, err := stub.client().SendMessage(context.Background(), SendOptions{Message: "Hello, World!"})
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}

	if !result.Success {
		t.Error("Success = false, want true")
	}
	if result.RequestID != "req123" {
		t.Errorf("RequestID = %q, want %q", result.RequestID, "req123")
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want empty", result.Errors)
	}
	if stub.lastPath != "/messages.json" {
		t.Errorf("path = %q, want /messages.json", stub.lastPath)
	}
	if got := stub.lastForm.Get("token"); got != "test_token" {
		t.Errorf("token = %q, want test_token", got)
	}
	if got := stub.lastForm.Get("user"); got != "test_user_key" {
		t.Errorf("user = %q, want test_user_key", got)
	}
}

func TestSendMessageFailure(t *testing.T) {
	stub := newStubAPI(t, `{"status":0,"request":"err123","errors":["invalid token"]}`)

	result, err := stub.client().SendMessage(context.Background(), SendOptions{Message: "x"})
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}

	if result.Success {
		t.Error("Success = true, want false")
	}
	if result.RequestID != "err123" {
		t.Errorf("RequestID = %q, want %q", result.RequestID, "err123")
	}
	if !reflect.DeepEqual(result.Errors, []string{"invalid token"}) {
		t.Errorf("Errors = %v, want [invalid token]", result.Errors)
	}
	if result.Raw["status"] != float64(0) {
		t.Errorf("Raw[status] = %v, want 0", result.Raw["status"])
	}
}

func TestSendMessageAllOptions(t *testing.T) {
	stub := newStubAPI(t, `{"status":1,"request":"req456"}`)

	ttl := 3600
	ts := int64(1234567890)
	_, err := stub.client().SendMessage(context.Background(), SendOptions{
		Message:   "Test message",
		Title:     "Test Title",
		Priority:  1,
		Sound:     "siren",
		Device:    "iphone",
		URL:       "https://example.com",
		URLTitle:  "Example",
		HTML:      true,
		TTL:       &ttl,
		Timestamp: &ts,
	})
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}

	want := map[string]string{
		"message":   "Test message",
		"title":     "Test Title",
		"priority":  "1",
		"sound":     "siren",
		"device":    "iphone",
		"url":       "https://example.com",
		"url_title": "Example",
		"html":      "1",
		"ttl":       "3600",
		"timestamp": "1234567890",
	}
	for key, val := range want {
		if got := stub.lastForm.Get(key); got != val {
			t.Errorf("form[%s] = %q, want %q", key, got, val)
		}
	}
}

func TestSendMessageTruncation(t *testing.T) {
	tests := []struct {
		name  string
		opts  SendOptions
		field string
		want  int
	}{
		{
			name:  "message to 1024",
			opts:  SendOptions{Message: strings.Repeat("x", 2000)},
			field: "message",
			want:  1024,
		},
		{
			name:  "title to 250",
			opts:  SendOptions{Message: "m", Title: strings.Repeat("t", 500)},
			field: "title",
			want:  250,
		},
		{
			name:  "url to 512",
			opts:  SendOptions{Message: "m", URL: strings.Repeat("u", 600)},
			field: "url",
			want:  512,
		},
		{
			name:  "url title to 100",
			opts:  SendOptions{Message: "m", URLTitle: strings.Repeat("v", 150)},
			field: "url_title",
			want:  100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStubAPI(t, `{"status":1,"request":"req789"}`)
			if _, err := stub.client().SendMessage(context.Background(), tt.opts); err != nil {
				t.Fatalf("SendMessage() error: %v", err)
			}
			if got := len(stub.lastForm.Get(tt.field)); got != tt.want {
				t.Errorf("len(form[%s]) = %d, want %d", tt.field, got, tt.want)
			}
		})
	}
}

func TestSendMessagePriorityField(t *testing.T) {
	tests := []struct {
		name       string
		priority   int
		wantField  string
		wantRetry  string
		wantExpire string
	}{
		{name: "zero omitted", priority: 0, wantField: ""},
		{name: "negative included", priority: -1, wantField: "-1"},
		{name: "high included", priority: 1, wantField: "1"},
		{name: "emergency adds retry and expire", priority: 2, wantField: "2", wantRetry: "60", wantExpire: "3600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newStubAPI(t, `{"status":1,"request":"req"}`)
			_, err := stub.client().SendMessage(context.Background(), SendOptions{Message: "m", Priority: tt.priority})
			if err != nil {
				t.Fatalf("SendMessage() error: %v", err)
			}

			if tt.wantField == "" {
				if _, present := stub.lastForm["priority"]; present {
					t.Error("priority field present, want omitted")
				}
			} else if got := stub.lastForm.Get("priority"); got != tt.wantField {
				t.Errorf("priority = %q, want %q", got, tt.wantField)
			}
			if got := stub.lastForm.Get("retry"); got != tt.wantRetry {
				t.Errorf("retry = %q, want %q", got, tt.wantRetry)
			}
			if got := stub.lastForm.Get("expire"); got != tt.wantExpire {
				t.Errorf("expire = %q, want %q", got, tt.wantExpire)
			}
		})
	}
}

func TestSendMessageInvalidSoundDropped(t *testing.T) {
	stub := newStubAPI(t, `{"status":1,"request":"req111"}`)

	_, err := stub.client().SendMessage(context.Background(), SendOptions{Message: "m", Sound: "invalid_sound_name"})
	if err != nil {
		t.Fatalf("SendMessage() error: %v", err)
	}

	if _, present := stub.lastForm["sound"]; present {
		t.Error("sound field present, want dropped for unknown sound")
	}
}

func TestValidateUser(t *testing.T) {
	stub := newStubAPI(t, `{"status":1,"devices":["iphone","desktop"],"licenses":["iOS"]}`)

	result, err := stub.client().ValidateUser(context.Background(), "")
	if err != nil {
		t.Fatalf("ValidateUser() error: %v", err)
	}

	if !result.Valid {
		t.Error("Valid = false, want true")
	}
	if !reflect.DeepEqual(result.Devices, []string{"iphone", "desktop"}) {
		t.Errorf("Devices = %v, want [iphone desktop]", result.Devices)
	}
	if !reflect.DeepEqual(result.Licenses, []string{"iOS"}) {
		t.Errorf("Licenses = %v, want [iOS]", result.Licenses)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want empty", result.Errors)
	}
	if stub.lastPath != "/users/validate.json" {
		t.Errorf("path = %q, want /users/validate.json", stub.lastPath)
	}
}

func TestValidateUserWithDevice(t *testing.T) {
	stub := newStubAPI(t, `{"status":1,"devices":["iphone"],"licenses":[]}`)

	if _, err := stub.client().ValidateUser(context.Background(), "iphone"); err != nil {
		t.Fatalf("ValidateUser() error: %v", err)
	}

	if got := stub.lastForm.Get("device"); got != "iphone" {
		t.Errorf("device = %q, want iphone", got)
	}
}

func TestValidateUserInvalid(t *testing.T) {
	stub := newStubAPI(t, `{"status":0,"errors":["invalid user key"]}`)

	result, err := stub.client().ValidateUser(context.Background(), "")
	if err != nil {
		t.Fatalf("ValidateUser() error: %v", err)
	}

	if result.Valid {
		t.Error("Valid = true, want false")
	}
	if !reflect.DeepEqual(result.Errors, []string{"invalid user key"}) {
		t.Errorf("Errors = %v, want [invalid user key]", result.Errors)
	}
}

func TestGetLimits(t *testing.T) {
	stub := newStubAPI(t, `{"status":1,"limit":10000,"remaining":9500,"reset":1700000000}`)

	result, err := stub.client().GetLimits(context.Background())
	if err != nil {
		t.Fatalf("GetLimits() error: %v", err)
	}

	if result.Limit != 10000 {
		t.Errorf("Limit = %d, want 10000", result.Limit)
	}
	if result.Remaining != 9500 {
		t.Errorf("Remaining = %d, want 9500", result.Remaining)
	}
	if result.Reset != 1700000000 {
		t.Errorf("Reset = %d, want 1700000000", result.Reset)
	}
	if stub.lastPath != "/apps/limits.json" {
		t.Errorf("path = %q, want /apps/limits.json", stub.lastPath)
	}
	if got := stub.lastURL.Query().Get("token"); got != "test_token" {
		t.Errorf("token query = %q, want test_token", got)
	}
}

func TestGetLimitsDefaults(t *testing.T) {
	stub := newStubAPI(t, `{"status":1}`)

	result, err := stub.client().GetLimits(context.Background())
	if err != nil {
		t.Fatalf("GetLimits() error: %v", err)
	}

	if result.Limit != 0 || result.Remaining != 0 || result.Reset != 0 {
		t.Errorf("GetLimits() = %+v, want zero values for absent fields", result)
	}
}

func TestDecodeFailure(t *testing.T) {
	stub := newStubAPI(t, `not json`)

	if _, err := stub.client().SendMessage(context.Background(), SendOptions{Message: "m"}); err == nil {
		t.Error("SendMessage() with unparseable body did not return an error")
	}
}

func TestConnectionReuseAndRecreate(t *testing.T) {
	c := NewClient("t", "u")

	first := c.httpc()
	if first == nil {
		t.Fatal("httpc() returned nil")
	}
	if second := c.httpc(); second != first {
		t.Error("consecutive calls created a new HTTP client")
	}

	c.Close()
	c.Close() // idempotent

	third := c.httpc()
	if third == nil {
		t.Fatal("httpc() after Close returned nil")
	}
	if third == first {
		t.Error("httpc() after Close reused the released client")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo", 3); got != "hél" {
		t.Errorf("truncate() = %q, want %q", got, "hél")
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q, want unchanged", got)
	}
}

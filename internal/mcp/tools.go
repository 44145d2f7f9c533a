// ABOUTME: MCP tool definitions and handlers.
// ABOUTME: Implements send, urgent send, validate, limits, and health.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mlgill/pushover-mcp-server/internal/db"
	"github.com/mlgill/pushover-mcp-server/internal/pushover"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const urgentDefaultSound = "siren"

func (s *Server) registerTools() {
	s.registerSendTool()
	s.registerSendUrgentTool()
	s.registerValidateTool()
	s.registerLimitsTool()
	s.registerHealthTool()
}

func (s *Server) registerSendTool() {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Message body (max 1024 characters)",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Message title (max 250 characters)",
			},
			"priority": map[string]any{
				"type":        "integer",
				"minimum":     -2,
				"maximum":     2,
				"description": "Priority: -2 (silent), -1 (quiet), 0 (normal), 1 (high), 2 (emergency)",
			},
			"sound": map[string]any{
				"type":        "string",
				"description": fmt.Sprintf("Notification sound: %s...", strings.Join(pushover.Sounds[:10], ", ")),
			},
			"device": map[string]any{
				"type":        "string",
				"description": "Target specific device name",
			},
			"url": map[string]any{
				"type":        "string",
				"description": "Supplementary URL to include",
			},
			"url_title": map[string]any{
				"type":        "string",
				"description": "Title for the supplementary URL",
			},
			"html": map[string]any{
				"type":        "boolean",
				"description": "Enable HTML formatting in message",
			},
			"ttl": map[string]any{
				"type":        "integer",
				"description": "Time to live in seconds (auto-delete)",
			},
		},
		"required": []string{"message"},
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "pushover_send",
		Description: "Send a Pushover notification to the configured user/group with full customization options including priority levels, sounds, and URLs.",
		InputSchema: schema,
	}, s.handleSend)
}

func (s *Server) registerSendUrgentTool() {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{
				"type":        "string",
				"description": "Urgent message body (max 1024 characters)",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "Message title (max 250 characters)",
			},
			"sound": map[string]any{
				"type":        "string",
				"description": "Notification sound (default: siren)",
			},
		},
		"required": []string{"message"},
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "pushover_send_urgent",
		Description: "Send an urgent high-priority Pushover notification (priority 1) with a loud sound. Use this when you need immediate attention from the user.",
		InputSchema: schema,
	}, s.handleSendUrgent)
}

func (s *Server) registerValidateTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "pushover_validate",
		Description: "Validate Pushover credentials and list registered devices.",
		InputSchema: emptyObjectSchema(),
	}, s.handleValidate)
}

func (s *Server) registerLimitsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "pushover_limits",
		Description: "Check Pushover API message limits: the monthly limit, remaining messages, and when the limit resets.",
		InputSchema: emptyObjectSchema(),
	}, s.handleLimits)
}

func (s *Server) registerHealthTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "pushover_health",
		Description: "Check Pushover MCP server health: validates credentials and confirms the server is working correctly.",
		InputSchema: emptyObjectSchema(),
	}, s.handleHealth)
}

func emptyObjectSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

type SendInput struct {
	Message  string `json:"message"`
	Title    string `json:"title,omitempty"`
	Priority *int   `json:"priority,omitempty"`
	Sound    string `json:"sound,omitempty"`
	Device   string `json:"device,omitempty"`
	URL      string `json:"url,omitempty"`
	URLTitle string `json:"url_title,omitempty"`
	HTML     bool   `json:"html,omitempty"`
	TTL      *int   `json:"ttl,omitempty"`
}

type SendOutput struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	Error     string   `json:"error,omitempty"`
	Logged    bool     `json:"logged,omitempty"`
	Warning   string   `json:"warning,omitempty"`
}

func (s *Server) handleSend(ctx context.Context, _ *mcp.CallToolRequest, input SendInput) (*mcp.CallToolResult, SendOutput, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, SendOutput{}, fmt.Errorf("message is required")
	}

	priority := 0
	if input.Priority != nil {
		priority = *input.Priority
	}
	if !pushover.ValidPriority(priority) {
		return s.sendError(SendOutput{Success: false, Error: "priority must be between -2 and 2"})
	}

	client, err := s.pushoverClient()
	if err != nil {
		return s.sendError(SendOutput{Success: false, Error: err.Error()})
	}

	opts := pushover.SendOptions{
		Message:  input.Message,
		Title:    input.Title,
		Priority: priority,
		Sound:    input.Sound,
		Device:   input.Device,
		URL:      input.URL,
		URLTitle: input.URLTitle,
		HTML:     input.HTML,
		TTL:      input.TTL,
	}

	return s.dispatch(ctx, client, opts)
}

type SendUrgentInput struct {
	Message string `json:"message"`
	Title   string `json:"title,omitempty"`
	Sound   string `json:"sound,omitempty"`
}

func (s *Server) handleSendUrgent(ctx context.Context, _ *mcp.CallToolRequest, input SendUrgentInput) (*mcp.CallToolResult, SendOutput, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, SendOutput{}, fmt.Errorf("message is required")
	}

	sound := input.Sound
	if !pushover.ValidSound(sound) {
		sound = urgentDefaultSound
	}

	client, err := s.pushoverClient()
	if err != nil {
		return s.sendError(SendOutput{Success: false, Error: err.Error()})
	}

	opts := pushover.SendOptions{
		Message:  input.Message,
		Title:    input.Title,
		Priority: pushover.PriorityHigh,
		Sound:    sound,
	}

	return s.dispatch(ctx, client, opts)
}

// dispatch sends the notification and shapes the outcome: API
// rejections become structured records, not tool errors.
func (s *Server) dispatch(ctx context.Context, client *pushover.Client, opts pushover.SendOptions) (*mcp.CallToolResult, SendOutput, error) {
	resp, err := client.SendMessage(ctx, opts)
	if err != nil {
		return nil, SendOutput{}, err
	}

	if !resp.Success {
		s.logger.Warn("notification rejected", "request_id", resp.RequestID, "errors", strings.Join(resp.Errors, "; "))
		out := SendOutput{Success: false, RequestID: resp.RequestID, Errors: resp.Errors}
		return s.sendError(out)
	}

	out := SendOutput{
		Success:   true,
		Message:   "Notification sent successfully",
		RequestID: resp.RequestID,
	}

	rec := db.SentRecord{
		Message:   opts.Message,
		Title:     opts.Title,
		Device:    opts.Device,
		Priority:  opts.Priority,
		RequestID: resp.RequestID,
		SentAt:    time.Now(),
	}
	if err := s.store.LogSent(ctx, rec); err != nil {
		out.Warning = fmt.Sprintf("failed to log history: %v", err)
	} else {
		out.Logged = true
	}

	s.logger.Info("notification sent", "request_id", resp.RequestID, "priority", opts.Priority)

	result, err := buildToolResult(out)
	if err != nil {
		return nil, out, err
	}
	return result, out, nil
}

func (s *Server) sendError(out SendOutput) (*mcp.CallToolResult, SendOutput, error) {
	result, err := buildToolResult(out)
	if err != nil {
		return nil, out, err
	}
	result.IsError = true
	return result, out, nil
}

type ValidateInput struct{}

type ValidateOutput struct {
	Valid    bool     `json:"valid"`
	Devices  []string `json:"devices,omitempty"`
	Licenses []string `json:"licenses,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func (s *Server) handleValidate(ctx context.Context, _ *mcp.CallToolRequest, _ ValidateInput) (*mcp.CallToolResult, ValidateOutput, error) {
	client, err := s.pushoverClient()
	if err != nil {
		out := ValidateOutput{Valid: false, Error: err.Error()}
		result, buildErr := buildToolResult(out)
		if buildErr != nil {
			return nil, out, buildErr
		}
		result.IsError = true
		return result, out, nil
	}

	resp, err := client.ValidateUser(ctx, "")
	if err != nil {
		return nil, ValidateOutput{}, err
	}

	out := ValidateOutput{Valid: resp.Valid}
	if resp.Valid {
		out.Devices = resp.Devices
		out.Licenses = resp.Licenses
	} else {
		out.Errors = resp.Errors
	}

	result, err := buildToolResult(out)
	if err != nil {
		return nil, out, err
	}
	return result, out, nil
}

type LimitsInput struct{}

type LimitsOutput struct {
	Limit          int     `json:"limit"`
	Remaining      int     `json:"remaining"`
	ResetTimestamp int64   `json:"reset_timestamp"`
	UsagePercent   float64 `json:"usage_percent"`
	Error          string  `json:"error,omitempty"`
}

func (s *Server) handleLimits(ctx context.Context, _ *mcp.CallToolRequest, _ LimitsInput) (*mcp.CallToolResult, LimitsOutput, error) {
	client, err := s.pushoverClient()
	if err != nil {
		out := LimitsOutput{Error: err.Error()}
		result, buildErr := buildToolResult(out)
		if buildErr != nil {
			return nil, out, buildErr
		}
		result.IsError = true
		return result, out, nil
	}

	resp, err := client.GetLimits(ctx)
	if err != nil {
		return nil, LimitsOutput{}, err
	}

	out := LimitsOutput{
		Limit:          resp.Limit,
		Remaining:      resp.Remaining,
		ResetTimestamp: resp.Reset,
		UsagePercent:   usagePercent(resp.Limit, resp.Remaining),
	}

	result, err := buildToolResult(out)
	if err != nil {
		return nil, out, err
	}
	return result, out, nil
}

// usagePercent reports consumed quota rounded to one decimal place.
func usagePercent(limit, remaining int) float64 {
	denom := limit
	if denom < 1 {
		denom = 1
	}
	pct := (1 - float64(remaining)/float64(denom)) * 100
	return math.Round(pct*10) / 10
}

type HealthInput struct{}

type HealthOutput struct {
	Status           string   `json:"status"`
	CredentialsValid *bool    `json:"credentials_valid,omitempty"`
	Devices          []string `json:"devices,omitempty"`
	Errors           []string `json:"errors,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// handleHealth never returns a tool error; every failure mode is
// reported inside the output record.
func (s *Server) handleHealth(ctx context.Context, _ *mcp.CallToolRequest, _ HealthInput) (*mcp.CallToolResult, HealthOutput, error) {
	creds := s.resolve()
	if !creds.IsValid() {
		return healthResult(HealthOutput{Status: "unhealthy", Error: "credentials not configured"})
	}

	client, err := s.pushoverClient()
	if err != nil {
		return healthResult(HealthOutput{Status: "error", Error: err.Error()})
	}

	resp, err := client.ValidateUser(ctx, "")
	if err != nil {
		return healthResult(HealthOutput{Status: "error", Error: err.Error()})
	}

	valid := resp.Valid
	if !valid {
		return healthResult(HealthOutput{Status: "unhealthy", CredentialsValid: &valid, Errors: resp.Errors})
	}
	return healthResult(HealthOutput{Status: "healthy", CredentialsValid: &valid, Devices: resp.Devices})
}

func healthResult(out HealthOutput) (*mcp.CallToolResult, HealthOutput, error) {
	result, err := buildToolResult(out)
	if err != nil {
		return nil, out, err
	}
	return result, out, nil
}

func buildToolResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

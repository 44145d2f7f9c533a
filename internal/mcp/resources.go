// ABOUTME: MCP resource definitions and providers.
// ABOUTME: Exposes server status, the sound catalogue, and sent history.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mlgill/pushover-mcp-server/internal/config"
	"github.com/mlgill/pushover-mcp-server/internal/pushover"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ResourcePayload struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links,omitempty"`
}

type ResourceMetadata struct {
	Timestamp   time.Time `json:"timestamp"`
	ResourceURI string    `json:"resource_uri"`
	Count       int       `json:"count"`
}

func (s *Server) registerResources() {
	s.registerStatusResource()
	s.registerSoundsResource()
	s.registerHistoryResource()
}

func (s *Server) registerStatusResource() {
	res := &mcp.Resource{
		URI:         "pushover://status",
		Name:        "Server Status",
		Description: "Credential resolution and storage health summary.",
		MIMEType:    "application/json",
	}

	s.mcp.AddResource(res, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		resolution := config.ResolveDetailed(s.cfgPath)
		creds := resolution.Credentials

		status := map[string]interface{}{
			"config": map[string]interface{}{
				"path":            s.configPathForDisplay(),
				"has_token":       creds.Token != "",
				"has_user_key":    creds.UserKey != "",
				"token_source":    resolution.TokenSource,
				"user_key_source": resolution.UserKeySource,
				"valid":           creds.IsValid(),
			},
			"database": map[string]interface{}{
				"path": s.dbPath,
			},
			"timestamp": time.Now(),
		}

		payload := ResourcePayload{
			Metadata: ResourceMetadata{
				Timestamp:   time.Now(),
				ResourceURI: res.URI,
				Count:       1,
			},
			Data: status,
			Links: map[string]string{
				"history": "pushover://history",
				"sounds":  "pushover://sounds",
			},
		}
		return buildResourceResult(req.Params.URI, payload)
	})
}

func (s *Server) registerSoundsResource() {
	res := &mcp.Resource{
		URI:         "pushover://sounds",
		Name:        "Notification Sounds",
		Description: "Sound names accepted by the send tools; unknown names are dropped.",
		MIMEType:    "application/json",
	}

	s.mcp.AddResource(res, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		payload := ResourcePayload{
			Metadata: ResourceMetadata{
				Timestamp:   time.Now(),
				ResourceURI: res.URI,
				Count:       len(pushover.Sounds),
			},
			Data: pushover.Sounds,
		}
		return buildResourceResult(req.Params.URI, payload)
	})
}

func (s *Server) registerHistoryResource() {
	res := &mcp.Resource{
		URI:         "pushover://history",
		Name:        "Sent History",
		Description: "Last 20 notifications dispatched through this server.",
		MIMEType:    "application/json",
	}

	s.mcp.AddResource(res, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		records, err := s.store.QuerySent(ctx, 20, nil, "")
		if err != nil {
			return nil, err
		}
		payload := ResourcePayload{
			Metadata: ResourceMetadata{
				Timestamp:   time.Now(),
				ResourceURI: res.URI,
				Count:       len(records),
			},
			Data: records,
		}
		return buildResourceResult(req.Params.URI, payload)
	})
}

func (s *Server) configPathForDisplay() string {
	if s.cfgPath != "" {
		return s.cfgPath
	}
	path, err := config.DefaultPath()
	if err != nil {
		return ""
	}
	return path
}

func buildResourceResult(uri string, payload ResourcePayload) (*mcp.ReadResourceResult, error) {
	bytes, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(bytes),
			},
		},
	}, nil
}

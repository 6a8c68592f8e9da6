// ABOUTME: MCP resource handlers for exposing CRM data
// ABOUTME: Serves crm://{collection}, crm://{collection}/{id}, and crm://dashboard as JSON
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/crmerr"
	"github.com/harperreed/crmcore/models"
	"github.com/harperreed/crmcore/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "crm://"

type ResourceHandlers struct {
	svc *crm.Service
}

func NewResourceHandlers(svc *crm.Service) *ResourceHandlers {
	return &ResourceHandlers{svc: svc}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, resourceScheme), "/")
	if parts[0] == "dashboard" && len(parts) == 1 {
		return h.readDashboard(ctx, uri)
	}

	kind, err := models.ParseKind(parts[0])
	if err != nil || len(parts) > 2 {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	if len(parts) == 1 {
		records, err := h.svc.List(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", kind.Table(), err)
		}
		return jsonResource(uri, records)
	}

	rec, err := h.svc.Get(ctx, kind, parts[1])
	if crmerr.IsNotFound(err) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", kind, err)
	}
	return jsonResource(uri, rec)
}

func (h *ResourceHandlers) readDashboard(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	stats, err := viz.GenerateDashboardStats(ctx, h.svc.DB(), h.svc.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return jsonResource(uri, stats)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}

// RegisterResources adds a list resource and an item template per entity kind.
func (h *ResourceHandlers) RegisterResources(server *mcp.Server) {
	for _, kind := range models.Kinds {
		server.AddResource(&mcp.Resource{
			URI:         resourceScheme + kind.Table(),
			Name:        kind.Table(),
			Description: fmt.Sprintf("All %s records", kind),
			MIMEType:    "application/json",
		}, h.ReadResource)

		server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: resourceScheme + kind.Table() + "/{id}",
			Name:        string(kind),
			Description: fmt.Sprintf("A single %s by ID", kind),
			MIMEType:    "application/json",
		}, h.ReadResource)
	}

	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "dashboard",
		Name:        "dashboard",
		Description: "Pipeline, lead funnel, and activity statistics",
		MIMEType:    "application/json",
	}, h.ReadResource)
}

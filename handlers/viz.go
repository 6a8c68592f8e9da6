// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides ownership_graph and dashboard tools for agents
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/models"
	"github.com/harperreed/crmcore/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	svc *crm.Service
}

func NewVizHandlers(svc *crm.Service) *VizHandlers {
	return &VizHandlers{svc: svc}
}

type OwnershipGraphInput struct {
	UserID string `json:"user_id" jsonschema:"ID of the user whose records are drawn (required)"`
}

type OwnershipGraphOutput struct {
	UserID    string `json:"user_id"`
	DOTSource string `json:"dot_source"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

func (h *VizHandlers) OwnershipGraph(ctx context.Context, request *mcp.CallToolRequest, input OwnershipGraphInput) (*mcp.CallToolResult, OwnershipGraphOutput, error) {
	if input.UserID == "" {
		return nil, OwnershipGraphOutput{}, fmt.Errorf("user_id is required")
	}

	dot, err := viz.NewGraphGenerator(h.svc.DB()).GenerateOwnershipGraph(ctx, input.UserID)
	if err != nil {
		return nil, OwnershipGraphOutput{}, toolError("generate graph", err)
	}

	nodeCount, edgeCount := viz.CountGraph(dot)
	return nil, OwnershipGraphOutput{
		UserID:    input.UserID,
		DOTSource: dot,
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}, nil
}

type DashboardInput struct{}

type DashboardOutput struct {
	Text              string         `json:"text"`
	Totals            map[string]int `json:"totals"`
	OpenActivities    int            `json:"open_activities"`
	OverdueActivities int            `json:"overdue_activities"`
	StaleDeals        int            `json:"stale_deals"`
}

func (h *VizHandlers) Dashboard(ctx context.Context, request *mcp.CallToolRequest, input DashboardInput) (*mcp.CallToolResult, DashboardOutput, error) {
	stats, err := viz.GenerateDashboardStats(ctx, h.svc.DB(), h.svc.Now())
	if err != nil {
		return nil, DashboardOutput{}, toolError("build dashboard", err)
	}

	totals := make(map[string]int, len(models.Kinds))
	for _, k := range models.Kinds {
		totals[k.Table()] = stats.Totals[k]
	}

	return nil, DashboardOutput{
		Text:              viz.RenderDashboard(stats),
		Totals:            totals,
		OpenActivities:    stats.OpenActivities,
		OverdueActivities: len(stats.OverdueActivities),
		StaleDeals:        len(stats.StaleDeals),
	}, nil
}

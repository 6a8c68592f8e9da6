// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Builds lead qualification, pipeline analysis, and account overview prompts from live data
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/models"
	"github.com/harperreed/crmcore/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	svc *crm.Service
}

func NewPromptHandlers(svc *crm.Service) *PromptHandlers {
	return &PromptHandlers{svc: svc}
}

// RegisterPrompts adds every prompt template to server.
func (h *PromptHandlers) RegisterPrompts(server *mcp.Server) {
	server.AddPrompt(&mcp.Prompt{
		Name:        "lead-qualification",
		Description: "Assess a lead and recommend whether to convert it",
		Arguments: []*mcp.PromptArgument{
			{Name: "lead_id", Description: "ID of the lead", Required: true},
		},
	}, h.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "deal-analysis",
		Description: "Analyze the current deal pipeline",
	}, h.GetPrompt)

	server.AddPrompt(&mcp.Prompt{
		Name:        "account-overview",
		Description: "Summarize a company with its contacts, deals, and open activities",
		Arguments: []*mcp.PromptArgument{
			{Name: "company_id", Description: "ID of the company", Required: true},
		},
	}, h.GetPrompt)
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	args := request.Params.Arguments
	switch request.Params.Name {
	case "lead-qualification":
		return h.getLeadQualificationPrompt(ctx, args)
	case "deal-analysis":
		return h.getDealAnalysisPrompt(ctx)
	case "account-overview":
		return h.getAccountOverviewPrompt(ctx, args)
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func promptResult(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role:    "user",
				Content: &mcp.TextContent{Text: text},
			},
		},
	}
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func (h *PromptHandlers) getLeadQualificationPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	leadID, ok := args["lead_id"]
	if !ok || leadID == "" {
		return nil, fmt.Errorf("lead_id is required")
	}

	rec, err := h.svc.Get(ctx, models.KindLead, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lead: %w", err)
	}
	lead := rec.(*models.Lead)

	var text strings.Builder
	text.WriteString("Please assess this lead:\n\n")
	text.WriteString(fmt.Sprintf("Name: %s\n", lead.Label()))
	text.WriteString(fmt.Sprintf("Email: %s\n", lead.Email))
	text.WriteString(fmt.Sprintf("Company: %s\n", deref(lead.Company)))
	text.WriteString(fmt.Sprintf("Job Title: %s\n", deref(lead.JobTitle)))
	text.WriteString(fmt.Sprintf("Source: %s\n", deref(lead.Source)))
	text.WriteString(fmt.Sprintf("Status: %s\n", lead.Status))
	if lead.Score != nil {
		text.WriteString(fmt.Sprintf("Score: %d\n", *lead.Score))
	}
	if lead.Notes != nil {
		text.WriteString(fmt.Sprintf("\nNotes:\n%s\n", *lead.Notes))
	}

	text.WriteString("\nPlease provide:")
	text.WriteString("\n1. How well this lead fits our customer profile")
	text.WriteString("\n2. Whether it should be converted to a contact now")
	text.WriteString("\n3. A suggested next activity")

	return promptResult("Lead qualification for "+lead.Label(), text.String()), nil
}

func (h *PromptHandlers) getDealAnalysisPrompt(ctx context.Context) (*mcp.GetPromptResult, error) {
	stats, err := viz.GenerateDashboardStats(ctx, h.svc.DB(), h.svc.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline stats: %w", err)
	}

	var totalValue float64
	for _, p := range stats.PipelineByStage {
		totalValue += p.Value
	}

	var text strings.Builder
	text.WriteString("Please analyze the current deal pipeline:\n\n")
	text.WriteString(fmt.Sprintf("Total Deals: %d\n", stats.Totals[models.KindDeal]))
	text.WriteString(fmt.Sprintf("Total Value: $%.2f\n\n", totalValue))
	text.WriteString("Pipeline by Stage:\n")
	for _, stage := range models.DealStages {
		if p, ok := stats.PipelineByStage[stage]; ok {
			text.WriteString(fmt.Sprintf("  - %s: %d deals, $%.2f\n", stage, p.Count, p.Value))
		}
	}
	if len(stats.StaleDeals) > 0 {
		text.WriteString("\nStale Deals:\n")
		for _, d := range stats.StaleDeals {
			text.WriteString(fmt.Sprintf("  - %s (%d days without an update)\n", d.Title, d.DaysSince))
		}
	}

	text.WriteString("\nPlease provide:")
	text.WriteString("\n1. Analysis of pipeline health and distribution")
	text.WriteString("\n2. Recommendations for deals that may need attention")
	text.WriteString("\n3. Suggestions for improving conversion rates")

	return promptResult("Deal pipeline analysis", text.String()), nil
}

func (h *PromptHandlers) getAccountOverviewPrompt(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	companyID, ok := args["company_id"]
	if !ok || companyID == "" {
		return nil, fmt.Errorf("company_id is required")
	}

	rec, err := h.svc.Get(ctx, models.KindCompany, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch company: %w", err)
	}
	company := rec.(*models.Company)

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Please give an overview of the account %s.\n\n", company.Name))
	text.WriteString(fmt.Sprintf("Industry: %s\n", deref(company.Industry)))
	text.WriteString(fmt.Sprintf("Website: %s\n", deref(company.Website)))
	text.WriteString(fmt.Sprintf("Size: %s\n", deref(company.Size)))

	related := []models.Kind{models.KindContact, models.KindDeal, models.KindActivity}
	for _, kind := range related {
		records, err := h.svc.List(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", kind.Table(), err)
		}
		text.WriteString(fmt.Sprintf("\n%s:\n", strings.ToUpper(kind.Table())))
		n := 0
		for _, r := range records {
			if !referencesCompany(r, companyID) {
				continue
			}
			n++
			switch v := r.(type) {
			case *models.Deal:
				text.WriteString(fmt.Sprintf("  - %s (%s, $%.2f)\n", v.Title, v.Stage, v.Value))
			case *models.Activity:
				text.WriteString(fmt.Sprintf("  - %s [%s]\n", v.Title, v.Status))
			default:
				text.WriteString(fmt.Sprintf("  - %s\n", r.Label()))
			}
		}
		if n == 0 {
			text.WriteString("  (none)\n")
		}
	}

	text.WriteString("\nPlease provide:")
	text.WriteString("\n1. A summary of the relationship")
	text.WriteString("\n2. Risks and opportunities")
	text.WriteString("\n3. Recommended next steps")

	return promptResult("Account overview for "+company.Name, text.String()), nil
}

func referencesCompany(rec models.Record, companyID string) bool {
	for _, ref := range rec.References() {
		if ref.Kind == models.KindCompany && ref.ID == companyID {
			return true
		}
	}
	return false
}

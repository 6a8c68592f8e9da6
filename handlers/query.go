// ABOUTME: Record listing tool handler
// ABOUTME: Implements list_records with text search and field equality filters for any entity
package handlers

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/harperreed/crmcore/models"
	"github.com/harperreed/crmcore/patch"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 50

type ListRecordsInput struct {
	Entity  string         `json:"entity" jsonschema:"Entity type to list"`
	Query   string         `json:"query,omitempty" jsonschema:"Case-insensitive search over the record label and email"`
	Filters map[string]any `json:"filters,omitempty" jsonschema:"Exact field matches keyed by camelCase name; null matches unset fields"`
	Limit   int            `json:"limit,omitempty" jsonschema:"Maximum results to return (default 50)"`
}

type ListRecordsOutput struct {
	Entity  string           `json:"entity"`
	Records []map[string]any `json:"records"`
	Count   int              `json:"count"`
	Total   int              `json:"total"`
}

func (h *RecordHandlers) ListRecords(ctx context.Context, req *mcp.CallToolRequest, input ListRecordsInput) (*mcp.CallToolResult, ListRecordsOutput, error) {
	kind, err := parseEntity(input.Entity)
	if err != nil {
		return nil, ListRecordsOutput{}, err
	}
	if input.Limit == 0 {
		input.Limit = defaultListLimit
	}
	if input.Limit < 0 {
		return nil, ListRecordsOutput{}, fmt.Errorf("limit must be positive")
	}
	if err := checkFilterKeys(kind, input.Filters); err != nil {
		return nil, ListRecordsOutput{}, err
	}

	records, err := h.svc.List(ctx, kind)
	if err != nil {
		return nil, ListRecordsOutput{}, toolError("list "+kind.Table(), err)
	}

	query := strings.ToLower(strings.TrimSpace(input.Query))
	results := []map[string]any{}
	for _, rec := range records {
		m, err := models.AsMap(rec)
		if err != nil {
			return nil, ListRecordsOutput{}, err
		}
		if !matchesQuery(rec, m, query) || !matchesFilters(m, input.Filters) {
			continue
		}
		results = append(results, m)
	}

	total := len(results)
	if len(results) > input.Limit {
		results = results[:input.Limit]
	}

	return nil, ListRecordsOutput{
		Entity:  string(kind),
		Records: results,
		Count:   len(results),
		Total:   total,
	}, nil
}

func checkFilterKeys(kind models.Kind, filters map[string]any) error {
	if len(filters) == 0 {
		return nil
	}
	fields, err := models.NewFields(kind)
	if err != nil {
		return err
	}
	allowed := append(patch.Keys(fields), "id", "createdAt", "updatedAt")
	if kind == models.KindLead {
		allowed = append(allowed, "convertedToContactId")
	}
	for key := range filters {
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("invalid filter %q for %s", key, kind)
		}
	}
	return nil
}

func matchesQuery(rec models.Record, m map[string]any, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Label()), query) {
		return true
	}
	email, _ := m["email"].(string)
	return strings.Contains(strings.ToLower(email), query)
}

func matchesFilters(m map[string]any, filters map[string]any) bool {
	for key, want := range filters {
		got := m[key]
		if want == nil || got == nil {
			if want != got {
				return false
			}
			continue
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

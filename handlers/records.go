// ABOUTME: Record MCP tool handlers
// ABOUTME: Implements create_record, get_record, update_record, delete_record, and convert_lead
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/crmcore/crm"
	"github.com/harperreed/crmcore/crmerr"
	"github.com/harperreed/crmcore/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type RecordHandlers struct {
	svc *crm.Service
}

func NewRecordHandlers(svc *crm.Service) *RecordHandlers {
	return &RecordHandlers{svc: svc}
}

type RecordOutput struct {
	Entity string         `json:"entity"`
	Record map[string]any `json:"record"`
}

// toolError keeps the status code a REST caller would see next to the message.
func toolError(op string, err error) error {
	if field := crmerr.FieldOf(err); field != "" {
		return fmt.Errorf("failed to %s (status %d, field %s): %w", op, crmerr.HTTPStatus(err), field, err)
	}
	return fmt.Errorf("failed to %s (status %d): %w", op, crmerr.HTTPStatus(err), err)
}

func parseEntity(entity string) (models.Kind, error) {
	if entity == "" {
		return "", fmt.Errorf("entity is required")
	}
	return models.ParseKind(entity)
}

func recordToOutput(rec models.Record) (RecordOutput, error) {
	m, err := models.AsMap(rec)
	if err != nil {
		return RecordOutput{}, err
	}
	return RecordOutput{Entity: string(rec.RecordKind()), Record: m}, nil
}

type CreateRecordInput struct {
	Entity string         `json:"entity" jsonschema:"Entity type: user, contact, company, deal, lead, activity, or note"`
	Fields map[string]any `json:"fields" jsonschema:"Field values keyed by camelCase name (e.g. firstName, companyId)"`
}

func (h *RecordHandlers) CreateRecord(ctx context.Context, request *mcp.CallToolRequest, input CreateRecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	kind, err := parseEntity(input.Entity)
	if err != nil {
		return nil, RecordOutput{}, err
	}

	rec, err := h.svc.Create(ctx, kind, input.Fields)
	if err != nil {
		return nil, RecordOutput{}, toolError("create "+string(kind), err)
	}

	out, err := recordToOutput(rec)
	return nil, out, err
}

type GetRecordInput struct {
	Entity string `json:"entity" jsonschema:"Entity type"`
	ID     string `json:"id" jsonschema:"Record ID (required)"`
}

func (h *RecordHandlers) GetRecord(ctx context.Context, request *mcp.CallToolRequest, input GetRecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	kind, err := parseEntity(input.Entity)
	if err != nil {
		return nil, RecordOutput{}, err
	}
	if input.ID == "" {
		return nil, RecordOutput{}, fmt.Errorf("id is required")
	}

	rec, err := h.svc.Get(ctx, kind, input.ID)
	if err != nil {
		return nil, RecordOutput{}, toolError("get "+string(kind), err)
	}

	out, err := recordToOutput(rec)
	return nil, out, err
}

type UpdateRecordInput struct {
	Entity string         `json:"entity" jsonschema:"Entity type"`
	ID     string         `json:"id" jsonschema:"Record ID (required)"`
	Fields map[string]any `json:"fields" jsonschema:"Fields to change; omitted fields are kept and null clears an optional field"`
}

func (h *RecordHandlers) UpdateRecord(ctx context.Context, request *mcp.CallToolRequest, input UpdateRecordInput) (*mcp.CallToolResult, RecordOutput, error) {
	kind, err := parseEntity(input.Entity)
	if err != nil {
		return nil, RecordOutput{}, err
	}
	if input.ID == "" {
		return nil, RecordOutput{}, fmt.Errorf("id is required")
	}

	rec, err := h.svc.Update(ctx, kind, input.ID, input.Fields)
	if err != nil {
		return nil, RecordOutput{}, toolError("update "+string(kind), err)
	}

	out, err := recordToOutput(rec)
	return nil, out, err
}

type DeleteRecordInput struct {
	Entity string `json:"entity" jsonschema:"Entity type"`
	ID     string `json:"id" jsonschema:"Record ID (required)"`
}

type DeleteRecordOutput struct {
	Entity  string `json:"entity"`
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *RecordHandlers) DeleteRecord(ctx context.Context, request *mcp.CallToolRequest, input DeleteRecordInput) (*mcp.CallToolResult, DeleteRecordOutput, error) {
	kind, err := parseEntity(input.Entity)
	if err != nil {
		return nil, DeleteRecordOutput{}, err
	}
	if input.ID == "" {
		return nil, DeleteRecordOutput{}, fmt.Errorf("id is required")
	}

	if err := h.svc.Delete(ctx, kind, input.ID); err != nil {
		return nil, DeleteRecordOutput{}, toolError("delete "+string(kind), err)
	}

	return nil, DeleteRecordOutput{Entity: string(kind), ID: input.ID, Deleted: true}, nil
}

type ConvertLeadInput struct {
	LeadID    string `json:"lead_id" jsonschema:"ID of the lead to convert (required)"`
	CompanyID string `json:"company_id,omitempty" jsonschema:"Company to attach the new contact to"`
}

type ConvertLeadOutput struct {
	Lead    map[string]any `json:"lead"`
	Contact map[string]any `json:"contact"`
}

func (h *RecordHandlers) ConvertLead(ctx context.Context, request *mcp.CallToolRequest, input ConvertLeadInput) (*mcp.CallToolResult, ConvertLeadOutput, error) {
	if input.LeadID == "" {
		return nil, ConvertLeadOutput{}, fmt.Errorf("lead_id is required")
	}

	var companyID *string
	if input.CompanyID != "" {
		companyID = &input.CompanyID
	}

	conv, err := h.svc.ConvertLead(ctx, input.LeadID, companyID)
	if err != nil {
		return nil, ConvertLeadOutput{}, toolError("convert lead", err)
	}

	lead, err := models.AsMap(conv.Lead)
	if err != nil {
		return nil, ConvertLeadOutput{}, err
	}
	contact, err := models.AsMap(conv.Contact)
	if err != nil {
		return nil, ConvertLeadOutput{}, err
	}
	return nil, ConvertLeadOutput{Lead: lead, Contact: contact}, nil
}

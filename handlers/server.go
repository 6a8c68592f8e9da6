// ABOUTME: MCP server assembly
// ABOUTME: Registers every CRM tool, resource, and prompt on one server
package handlers

import (
	"github.com/harperreed/crmcore/crm"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server backed by svc.
func NewServer(svc *crm.Service, version string) *mcp.Server {
	records := NewRecordHandlers(svc)
	vizHandlers := NewVizHandlers(svc)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "crmcore",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_record",
		Description: "Create a user, contact, company, deal, lead, activity, or note",
	}, records.CreateRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_record",
		Description: "Fetch one record by entity type and ID",
	}, records.GetRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_records",
		Description: "List records of one entity type with optional search and field filters",
	}, records.ListRecords)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_record",
		Description: "Partially update a record; omitted fields are kept and null clears an optional field",
	}, records.UpdateRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_record",
		Description: "Delete a record; references to deleted contacts, companies, and deals are cleared",
	}, records.DeleteRecord)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_lead",
		Description: "Convert a lead into a contact and mark the lead Converted in one step",
	}, records.ConvertLead)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ownership_graph",
		Description: "Generate a GraphViz DOT graph of everything a user owns",
	}, vizHandlers.OwnershipGraph)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "dashboard",
		Description: "Summarize the pipeline, lead funnel, and open activities",
	}, vizHandlers.Dashboard)

	NewResourceHandlers(svc).RegisterResources(server)
	NewPromptHandlers(svc).RegisterPrompts(server)

	return server
}

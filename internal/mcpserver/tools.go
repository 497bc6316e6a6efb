package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/reportu/reportu/internal/intake"
	"github.com/reportu/reportu/internal/report"
)

func (s *Server) registerTools() {
	categories := make([]string, 0, len(report.Categories()))
	for _, c := range report.Categories() {
		categories = append(categories, string(c))
	}
	countries := make([]string, 0, 2)
	for _, c := range report.Countries() {
		countries = append(countries, string(c))
	}
	statuses := make([]string, 0, 4)
	for _, st := range intake.Statuses() {
		statuses = append(statuses, string(st))
	}

	s.mcpServer.AddTool(
		mcp.NewTool("report_submit",
			mcp.WithDescription("File an incident report with the authorities in Malaysia or Singapore"),
			mcp.WithString("type", mcp.Required(),
				mcp.Description("Incident category"),
				mcp.Enum(categories...),
			),
			mcp.WithString("description", mcp.Required(),
				mcp.Description("What happened, in as much detail as possible"),
			),
			mcp.WithString("country", mcp.Required(),
				mcp.Description("Country where the incident happened"),
				mcp.Enum(countries...),
			),
			mcp.WithString("location", mcp.Required(),
				mcp.Description("Street address or landmark"),
			),
			mcp.WithArray("attachments",
				mcp.Description("Photos or videos of the incident"),
				mcp.Items(map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "File name including extension",
						},
						"mime_type": map[string]any{
							"type":        "string",
							"description": "MIME type, detected from the name when omitted",
						},
						"data": map[string]any{
							"type":        "string",
							"description": "Base64-encoded file content",
						},
					},
					"required": []string{"name", "data"},
				}),
			),
			mcp.WithString("key",
				mcp.Description("Idempotency key; retrying with the same key within 24 hours returns the original reference"),
			),
		),
		s.handleSubmit,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("report_list",
			mcp.WithDescription("List recent reports, or only successfully resolved cases"),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of reports (default 5)"),
			),
			mcp.WithBoolean("successes",
				mcp.Description("Only list resolved cases with an outcome"),
			),
		),
		s.handleList,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("report_get",
			mcp.WithDescription("Look up one report by its reference number"),
			mcp.WithString("reference", mcp.Required(),
				mcp.Description("Reference number, e.g. REP-000042"),
			),
		),
		s.handleGet,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("report_evidence",
			mcp.WithDescription("Download one photo or video attached to a report"),
			mcp.WithString("reference", mcp.Required(),
				mcp.Description("Reference number, e.g. REP-000042"),
			),
			mcp.WithNumber("index",
				mcp.Description("Attachment index as listed by report_get (default 0)"),
			),
		),
		s.handleEvidence,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("report_status",
			mcp.WithDescription("Record a new handling status for a report"),
			mcp.WithString("reference", mcp.Required(),
				mcp.Description("Reference number, e.g. REP-000042"),
			),
			mcp.WithString("status", mcp.Required(),
				mcp.Description("New status"),
				mcp.Enum(statuses...),
			),
			mcp.WithString("outcome",
				mcp.Description("Outcome of a resolved case, e.g. 'Fine issued: $300'"),
			),
		),
		s.handleStatus,
	)
}

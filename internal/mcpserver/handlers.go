package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/reportu/reportu/internal/intake"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/media"
	"github.com/reportu/reportu/internal/report"
)

const defaultListLimit = 5

// handleSubmit walks a fresh wizard machine through every step so the
// report is gated exactly like one filed from the terminal. A caller-supplied
// key makes retries of the same call resolve to the first report.
func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("error: no arguments provided"), nil
	}

	category, err := report.ParseCategory(stringArg(args, "type"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}
	country, err := report.ParseCountry(stringArg(args, "country"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}
	sources, err := parseAttachments(args["attachments"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}

	stager, err := media.NewStager(s.opts.StagingDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}
	defer stager.Close()

	m := report.New(stager, report.Options{
		Submitter:          s.intake,
		MaxAttachments:     s.opts.MaxAttachments,
		MaxAttachmentBytes: s.opts.MaxAttachmentBytes,
		SubmitTimeout:      s.opts.SubmitTimeout,
	})
	defer m.Close()

	steps := []struct {
		name string
		fill func() error
	}{
		{"type", func() error { return m.SelectReportType(category) }},
		{"description", func() error { return m.SetDescription(stringArg(args, "description")) }},
		{"location", func() error {
			if err := m.SetCountry(country); err != nil {
				return err
			}
			return m.SetLocationDetails(stringArg(args, "location"))
		}},
		{"attachments", func() error { return m.AddAttachments(sources...) }},
	}
	for _, step := range steps {
		if err := step.fill(); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error: %s: %v", step.name, err)), nil
		}
		if err := m.Advance(); err != nil {
			if errors.Is(err, report.ErrRequirementsNotMet) {
				return mcp.NewToolResultError(fmt.Sprintf("error: '%s' is required", step.name)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
		}
	}

	if key := strings.TrimSpace(stringArg(args, "key")); key != "" {
		if err := m.UseKey(key); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
		}
	}

	receipt, err := m.Submit(ctx)
	if err != nil {
		logger.Warn("MCP submission failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("error: submission failed: %v", err)), nil
	}

	if receipt.Duplicate {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Report %s was already submitted to the authorities in %s.",
			receipt.Reference, receipt.Country,
		)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Report %s submitted to the appropriate authorities in %s.",
		receipt.Reference, receipt.Country,
	)), nil
}

// handleList returns recent reports or resolved cases as JSON.
func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	limit := defaultListLimit
	if v, ok := args["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}
	successes, _ := args["successes"].(bool)

	feed, err := s.intake.LoadFeed(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}

	var entries []intake.Entry
	if successes {
		entries = feed.Successes(limit)
	} else {
		entries = feed.Recent(limit)
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No reports"), nil
	}

	now := time.Now()
	out := make([]entryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toJSON(e, now))
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: failed to marshal reports: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleGet returns one report as JSON.
func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := stringArg(request.GetArguments(), "reference")
	if ref == "" {
		return mcp.NewToolResultError("error: missing 'reference' parameter"), nil
	}

	feed, err := s.intake.LoadFeed(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}
	entry, ok := feed.Lookup(ref)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v: %s", intake.ErrUnknownReference, ref)), nil
	}

	out := toJSON(entry, time.Now())
	out.Description = entry.Description
	for i, ev := range entry.Evidence {
		out.Attachments = append(out.Attachments, attachmentJSON{
			Index:    i,
			Name:     ev.Name,
			MIMEType: ev.MIMEType,
			Size:     ev.Size,
		})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: failed to marshal report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleEvidence returns one attachment of a report, base64-encoded.
func (s *Server) handleEvidence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	ref := stringArg(args, "reference")
	if ref == "" {
		return mcp.NewToolResultError("error: missing 'reference' parameter"), nil
	}
	index := 0
	if v, ok := args["index"].(float64); ok {
		index = int(v)
	}

	feed, err := s.intake.LoadFeed(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}
	entry, ok := feed.Lookup(ref)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v: %s", intake.ErrUnknownReference, ref)), nil
	}
	if index < 0 || index >= len(entry.Evidence) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"error: %s has %d attachment(s), no index %d", entry.Reference, len(entry.Evidence), index,
		)), nil
	}

	ev := entry.Evidence[index]
	raw, err := s.intake.Evidence(ctx, ev.Object)
	if err != nil {
		logger.Warn("Reading evidence %s failed: %v", ev.Object, err)
		return mcp.NewToolResultError(fmt.Sprintf("error: reading %s: %v", ev.Name, err)), nil
	}

	data, err := json.MarshalIndent(evidenceJSON{
		Reference: entry.Reference,
		attachmentJSON: attachmentJSON{
			Index:    index,
			Name:     ev.Name,
			MIMEType: ev.MIMEType,
			Size:     int64(len(raw)),
		},
		Data: base64.StdEncoding.EncodeToString(raw),
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: failed to marshal evidence: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleStatus records a status change.
func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	ref := stringArg(args, "reference")
	if ref == "" {
		return mcp.NewToolResultError("error: missing 'reference' parameter"), nil
	}
	status, err := intake.ParseStatus(stringArg(args, "status"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}

	entry, err := s.intake.UpdateStatus(ctx, ref, status, stringArg(args, "outcome"))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: %v", err)), nil
	}

	result := fmt.Sprintf("%s is now %s", entry.Reference, entry.Status)
	if entry.Outcome != "" {
		result += ": " + entry.Outcome
	}
	return mcp.NewToolResultText(result), nil
}

type entryJSON struct {
	Reference   string           `json:"reference"`
	Type        string           `json:"type"`
	Description string           `json:"description,omitempty"`
	Location    string           `json:"location"`
	Status      string           `json:"status"`
	Outcome     string           `json:"outcome,omitempty"`
	Evidence    int              `json:"evidence"`
	Attachments []attachmentJSON `json:"attachments,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
	Age         string           `json:"age"`
}

type attachmentJSON struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

type evidenceJSON struct {
	Reference string `json:"reference"`
	attachmentJSON
	Data string `json:"data"`
}

func toJSON(e intake.Entry, now time.Time) entryJSON {
	return entryJSON{
		Reference:   e.Reference,
		Type:        string(e.Category),
		Location:    e.Location,
		Status:      string(e.Status),
		Outcome:     e.Outcome,
		Evidence:    len(e.Evidence),
		SubmittedAt: e.SubmittedAt,
		Age:         e.Age(now),
	}
}

func stringArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// parseAttachments decodes the attachments argument (mcp-go hands arrays
// over as []any of map[string]any).
func parseAttachments(raw any) ([]media.Source, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("'attachments' is not an array")
	}

	sources := make([]media.Source, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("attachment %d is not an object", i)
		}
		name := stringArg(obj, "name")
		if name == "" {
			return nil, fmt.Errorf("attachment %d missing 'name'", i)
		}
		data, err := base64.StdEncoding.DecodeString(stringArg(obj, "data"))
		if err != nil {
			return nil, fmt.Errorf("attachment %d (%s): invalid base64: %w", i, name, err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("attachment %d (%s) is empty", i, name)
		}
		sources = append(sources, media.Source{
			Name:     name,
			Data:     data,
			MIMEType: stringArg(obj, "mime_type"),
		})
	}
	return sources, nil
}

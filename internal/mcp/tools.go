package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/render"
)

// Tool names
const (
	ToolListDisorders = "list_disorders"
	ToolGetDisorder   = "get_disorder"
	ToolFindByGene    = "find_by_gene"
)

// ListDisordersParams are the arguments of list_disorders.
type ListDisordersParams struct {
	Format string `json:"format,omitempty" jsonschema:"output format, json (default) or markdown"`
}

// GetDisorderParams are the arguments of get_disorder. ID wins when both
// are given.
type GetDisorderParams struct {
	ID   string `json:"id,omitempty" jsonschema:"disorder identifier"`
	Name string `json:"name,omitempty" jsonschema:"disorder name or common name, case-insensitive"`
}

// FindByGeneParams are the arguments of find_by_gene.
type FindByGeneParams struct {
	Query string `json:"query" jsonschema:"case-insensitive substring of a gene name"`
}

// DisorderList is the structured result of list_disorders and find_by_gene.
type DisorderList struct {
	Count     int               `json:"count"`
	Disorders []domain.Disorder `json:"disorders"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolListDisorders,
		Description: "List every corticogenesis disorder in catalog order with its genes",
	}, s.handleListDisorders)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolGetDisorder,
		Description: "Get one disorder by identifier or by name",
	}, s.handleGetDisorder)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        ToolFindByGene,
		Description: "Find the disorders associated with a gene",
	}, s.handleFindByGene)

	s.logger.WithField("tool_count", 3).Debug("Registered MCP tools")
}

func (s *Server) handleListDisorders(ctx context.Context, req *mcp.CallToolRequest, params ListDisordersParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithFields(logrus.Fields{"tool": ToolListDisorders, "format": params.Format}).Info("Tool invoked")

	records := s.provider.Records()
	switch strings.ToLower(params.Format) {
	case "", "json":
		return jsonResult(DisorderList{Count: len(records), Disorders: records})
	case "markdown":
		return textResult(render.Markdown(s.title, render.Compose(records))), nil, nil
	default:
		return createErrorResult(fmt.Sprintf("unsupported format %q: use json or markdown", params.Format)), nil, nil
	}
}

func (s *Server) handleGetDisorder(ctx context.Context, req *mcp.CallToolRequest, params GetDisorderParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithFields(logrus.Fields{"tool": ToolGetDisorder, "id": params.ID, "name": params.Name}).Info("Tool invoked")

	var (
		d   domain.Disorder
		err error
	)
	switch {
	case params.ID != "":
		d, err = s.provider.Get(params.ID)
	case strings.TrimSpace(params.Name) != "":
		d, err = s.provider.FindByName(params.Name)
	default:
		return createErrorResult("either id or name is required"), nil, nil
	}

	if errors.Is(err, domain.ErrNotFound) {
		return createErrorResult(err.Error()), nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(d)
}

func (s *Server) handleFindByGene(ctx context.Context, req *mcp.CallToolRequest, params FindByGeneParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithFields(logrus.Fields{"tool": ToolFindByGene, "query": params.Query}).Info("Tool invoked")

	if strings.TrimSpace(params.Query) == "" {
		return createErrorResult("query is required"), nil, nil
	}

	matches := s.provider.FindByGene(params.Query)
	return jsonResult(DisorderList{Count: len(matches), Disorders: matches})
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal tool result: %w", err)
	}
	return textResult(string(data)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// createErrorResult reports a tool-level failure to the client without
// failing the protocol request.
func createErrorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
		IsError: true,
	}
}

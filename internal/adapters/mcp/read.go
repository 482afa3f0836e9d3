package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"codemindmap/internal/application"
	"codemindmap/internal/application/commands"
	"codemindmap/internal/domain"
	"codemindmap/internal/ports"
)

// Deps are what the link tools read from
type Deps struct {
	Registry *application.ProjectRegistry
	Files    ports.LinkFiles
	Lines    ports.Navigator // only OpenFile and LineText are used
	Match    domain.MatchOptions
}

// RegisterReadTools adds all read-only link tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, deps Deps) {
	s.AddTool(resolveLinkTool(), resolveLinkHandler(deps))
	s.AddTool(listLinksTool(), listLinksHandler(deps))
	s.AddTool(projectRecordTool(), projectRecordHandler(deps))
}

// --- resolve_link ---

func resolveLinkTool() mcp.Tool {
	return mcp.NewTool("resolve_link",
		mcp.WithDescription("Find the line a code snippet is on now. Searches the file for the snippet and falls back to the recorded line when it is gone."),
		mcp.WithString("file",
			mcp.Description("Absolute path of the source file, or a path relative to project_root"),
			mcp.Required(),
		),
		mcp.WithNumber("line",
			mcp.Description("Line the snippet was recorded at (1-based)"),
			mcp.Required(),
		),
		mcp.WithString("snippet",
			mcp.Description("Linked code text; may span several lines"),
			mcp.Required(),
		),
		mcp.WithString("project_root",
			mcp.Description("Directory relative file paths are resolved against"),
		),
		mcp.WithBoolean("exact_match",
			mcp.Description("Require whole trimmed lines to equal the snippet lines"),
		),
		mcp.WithBoolean("ignore_case",
			mcp.Description("Compare case-insensitively"),
		),
	)
}

func resolveLinkHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref := domain.CodeReference{
			FilePath:    req.GetString("file", ""),
			TopLine:     req.GetInt("line", 0),
			SnippetText: req.GetString("snippet", ""),
		}
		opts := domain.MatchOptions{
			ExactMatch: req.GetBool("exact_match", deps.Match.ExactMatch),
			IgnoreCase: req.GetBool("ignore_case", deps.Match.IgnoreCase),
		}

		result, err := commands.NewResolveLinkCommand(deps.Lines, ref, req.GetString("project_root", ""), opts).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s\n", result.Message)
		if result.Text != "" {
			fmt.Fprintf(&sb, "%d: %s\n", result.Line, result.Text)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- list_links ---

func listLinksTool() mcp.Tool {
	return mcp.NewTool("list_links",
		mcp.WithDescription("List every code-linked node in a project's mind map with the line each link resolves to now."),
		mcp.WithString("project_file",
			mcp.Description("Absolute path of the project file (or workspace folder) the mind map belongs to"),
			mcp.Required(),
		),
	)
}

func listLinksHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectFile := req.GetString("project_file", "")

		result, err := commands.NewListLinksCommand(deps.Registry, deps.Files, deps.Lines, projectFile, deps.Match).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		if len(result.Links) == 0 {
			return mcp.NewToolResultText("No links."), nil
		}

		var sb strings.Builder
		for _, l := range result.Links {
			sb.WriteString(formatLink(l))
			sb.WriteByte('\n')
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- project_record ---

func projectRecordTool() mcp.Tool {
	return mcp.NewTool("project_record",
		mcp.WithDescription("Show where a project's mind map is stored."),
		mcp.WithString("project_file",
			mcp.Description("Absolute path of the project file (or workspace folder)"),
			mcp.Required(),
		),
	)
}

func projectRecordHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projectFile := req.GetString("project_file", "")
		if projectFile == "" {
			return toolError(fmt.Errorf("project_file is required"))
		}

		rec, ok := deps.Registry.Lookup(ctx, projectFile)
		if !ok {
			return toolError(fmt.Errorf("project %s: %w", projectFile, application.ErrNotFound))
		}
		return mcp.NewToolResultText(formatRecord(rec)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatLink(l commands.LinkStatus) string {
	ref := l.Reference
	switch {
	case l.Err != "":
		return fmt.Sprintf("%s  %s:%d  unreadable: %s", l.NodeID, ref.FilePath, ref.TopLine, l.Err)
	case l.Resolved:
		return fmt.Sprintf("%s  %s:%d  (recorded %d)  %s", l.NodeID, ref.FilePath, l.Line, ref.TopLine, firstLine(ref.SnippetText))
	default:
		return fmt.Sprintf("%s  %s:%d  not found  %s", l.NodeID, ref.FilePath, ref.TopLine, firstLine(ref.SnippetText))
	}
}

func formatRecord(rec domain.ProjectRecord) string {
	return fmt.Sprintf("id: %s\nproject: %s\nlink store: %s\n", rec.ProjectID, rec.ProjectFilePath, rec.LinkStoreFilePath)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"directory-bridge-server/internal/dispatch"
	"directory-bridge-server/internal/errors"
	"directory-bridge-server/internal/logger"
	"directory-bridge-server/internal/models"
	"directory-bridge-server/internal/platform"
)

// ProtocolVersion is the MCP revision announced by "initialize".
const ProtocolVersion = "2024-11-05"

const (
	MethodInitialize = "initialize"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"
)

// IsMCPMethod reports whether method belongs to the MCP front end rather than
// the bridge method set.
func IsMCPMethod(method string) bool {
	switch method {
	case MethodInitialize, MethodToolsList, MethodToolsCall:
		return true
	}
	return false
}

var toolDescriptions = map[dispatch.Operation]string{
	dispatch.OpGetPlatformVersion:  "Returns a human-readable OS version string.",
	dispatch.OpSelectDirectory:     "Opens the native directory chooser and returns the chosen path, or null if cancelled.",
	dispatch.OpHasPermission:       "Reports whether a file can be created in the directory.",
	dispatch.OpRequestPermission:   "Same as hasPermission; local directories have no interactive grant.",
	dispatch.OpWriteFile:           "Creates or replaces a file directly inside an existing, writable directory.",
	dispatch.OpListDirectory:       "Lists the names of a directory's children in platform order, or null if the directory is missing.",
	dispatch.OpReadFile:            "Returns a file's full contents as text, or null if it does not exist.",
	dispatch.OpGetDirectoryDetails: "Lists a directory's children with size, type and modification time.",
}

// MCPProcessor handles MCP requests by routing tool calls into the dispatcher.
type MCPProcessor struct {
	dispatcher *dispatch.Dispatcher
	version    string
}

// NewMCPProcessor creates a new MCPProcessor.
func NewMCPProcessor(d *dispatch.Dispatcher, version string) *MCPProcessor {
	return &MCPProcessor{
		dispatcher: d,
		version:    version,
	}
}

// ProcessRequest handles one MCP request and returns its JSON-RPC result or error.
func (p *MCPProcessor) ProcessRequest(ctx context.Context, req models.JSONRPCRequest) (interface{}, *models.JSONRPCError) {
	switch req.Method {
	case MethodInitialize:
		return p.initialize(), nil
	case MethodToolsList:
		return ToolsList(), nil
	case MethodToolsCall:
		var params models.MCPToolCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, errors.NewInvalidParamsError(fmt.Sprintf("tools/call: %v", err))
		}
		if params.Name == "" {
			return nil, errors.NewInvalidParamsError("tools/call: missing tool name")
		}
		return p.callTool(ctx, params), nil
	default:
		return nil, errors.NewMethodNotFoundError(req.Method)
	}
}

func (p *MCPProcessor) initialize() models.InitializeResponse {
	return models.InitializeResponse{
		ProtocolVersion: ProtocolVersion,
		ServerInfo: models.ServerInfo{
			Name:        "directory-bridge",
			Version:     p.version,
			Description: "Native directory selection and file access for local clients",
			Platform:    platform.Version(),
		},
	}
}

// callTool never returns a protocol error: bridge failures are reported
// in-band with isError set.
func (p *MCPProcessor) callTool(ctx context.Context, params models.MCPToolCallParams) *models.MCPToolResult {
	resp := p.dispatcher.DispatchRaw(ctx, params.Name, params.Arguments)
	body, err := json.Marshal(resp)
	if err != nil {
		logger.Error("Failed to encode result of tool %s: %v", params.Name, err)
		return models.NewTextToolResult(formatToolError(errors.NewInternalError(err.Error())), true)
	}
	return models.NewTextToolResult(string(body), !resp.IsSuccess())
}

// ToolsList describes every bridge operation as an MCP tool.
func ToolsList() models.ToolsListResponse {
	tools := make([]models.ToolDefinition, 0, len(dispatch.Operations))
	for _, op := range dispatch.Operations {
		readOnly := !op.Mutates() && !op.Interactive()
		tools = append(tools, models.ToolDefinition{
			Name:        string(op),
			Description: toolDescriptions[op],
			InputSchema: inputSchema(dispatch.Schemas[op]),
			Annotations: models.ToolAnnotations{
				ReadOnlyHint:    readOnly,
				DestructiveHint: op.Mutates(),
				IdempotentHint:  readOnly,
			},
		})
	}
	return models.ToolsListResponse{Tools: tools}
}

func inputSchema(s dispatch.Schema) models.Schema {
	properties := make(map[string]interface{}, len(s))
	required := []string{}
	for _, spec := range s {
		properties[spec.Key] = map[string]interface{}{
			"type":        jsonType(spec.Kind),
			"description": spec.Description,
		}
		if spec.Required {
			required = append(required, spec.Key)
		}
	}
	return models.Schema{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func jsonType(k models.Kind) string {
	switch k {
	case models.KindBool:
		return "boolean"
	case models.KindInt:
		return "integer"
	case models.KindFloat:
		return "number"
	case models.KindString:
		return "string"
	case models.KindList:
		return "array"
	case models.KindMap:
		return "object"
	default:
		return "null"
	}
}

func formatToolError(detail *models.ErrorDetail) string {
	if detail == nil {
		return "Error: an unexpected error occurred, but no details were provided."
	}
	return fmt.Sprintf("Error: %s (Code: %s)", detail.Message, detail.Code)
}

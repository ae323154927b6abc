package models

import "encoding/json"

// MCPToolContent is one content block of a tool result.
type MCPToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// MCPToolResult is the payload returned for "tools/call".
type MCPToolResult struct {
	Content []MCPToolContent `json:"content"`
	IsError bool             `json:"isError"`
}

// MCPToolCallParams are the params of a "tools/call" request. Arguments is
// handed to the dispatcher untouched.
type MCPToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// NewTextToolResult builds a single-block text result.
func NewTextToolResult(text string, isError bool) *MCPToolResult {
	return &MCPToolResult{
		Content: []MCPToolContent{{Type: "text", Text: text}},
		IsError: isError,
	}
}

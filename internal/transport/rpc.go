package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"directory-bridge-server/internal/dispatch"
	"directory-bridge-server/internal/errors"
	"directory-bridge-server/internal/logger"
	"directory-bridge-server/internal/mcp"
	"directory-bridge-server/internal/models"
)

// notificationPrefix marks MCP notifications, which never get a reply.
const notificationPrefix = "notifications/"

// RPCHandler turns one JSON-RPC request into one JSON-RPC response. It is
// shared by the stdio transport and the HTTP /rpc endpoint.
type RPCHandler struct {
	dispatcher *dispatch.Dispatcher
	mcp        *mcp.MCPProcessor
}

// NewRPCHandler creates a new RPCHandler. A nil processor disables the MCP
// methods.
func NewRPCHandler(d *dispatch.Dispatcher, p *mcp.MCPProcessor) *RPCHandler {
	if d == nil {
		logger.Warn("Dispatcher is nil in NewRPCHandler")
	}
	return &RPCHandler{dispatcher: d, mcp: p}
}

// HandleMessage parses and answers a raw request. ok is false when the
// message is a notification and nothing must be written back.
func (h *RPCHandler) HandleMessage(ctx context.Context, message []byte) (resp models.JSONRPCResponse, ok bool) {
	var req models.JSONRPCRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return models.JSONRPCResponse{
			JSONRPC: models.JSONRPCVersion,
			Error:   errors.NewParseError(fmt.Sprintf("invalid JSON received: %v", err)),
		}, true
	}
	return h.Handle(ctx, req)
}

// Handle answers an already decoded request.
func (h *RPCHandler) Handle(ctx context.Context, req models.JSONRPCRequest) (models.JSONRPCResponse, bool) {
	resp := models.JSONRPCResponse{JSONRPC: models.JSONRPCVersion, ID: req.ID}

	if req.JSONRPC != models.JSONRPCVersion {
		resp.Error = errors.NewInvalidRequestError("invalid JSON-RPC version, must be '2.0'")
		return resp, true
	}
	if req.Method == "" {
		resp.Error = errors.NewInvalidRequestError("method not specified")
		return resp, true
	}
	if strings.HasPrefix(req.Method, notificationPrefix) {
		logger.Debug("Ignoring notification %s", req.Method)
		return resp, false
	}

	if h.mcp != nil && mcp.IsMCPMethod(req.Method) {
		resp.Result, resp.Error = h.mcp.ProcessRequest(ctx, req)
		return resp, true
	}

	resp.Result, resp.Error = errors.ResponseToJSONRPC(h.dispatcher.DispatchRaw(ctx, req.Method, req.Params))
	return resp, true
}

// encodeResponse marshals resp, substituting an internal error if the
// result cannot be encoded.
func encodeResponse(resp models.JSONRPCResponse) []byte {
	b, err := json.Marshal(resp)
	if err == nil {
		return b
	}
	logger.Error("Error marshaling JSON-RPC response for id %v: %v", resp.ID, err)
	fallback := models.JSONRPCResponse{
		JSONRPC: models.JSONRPCVersion,
		ID:      resp.ID,
		Error:   errors.ToJSONRPCError(errors.NewInternalError("failed to marshal response")),
	}
	b, _ = json.Marshal(fallback)
	return b
}

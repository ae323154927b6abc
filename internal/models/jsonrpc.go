package models

import "encoding/json"

// JSONRPCVersion is the only protocol version accepted by the transports.
const JSONRPCVersion = "2.0"

// JSONRPCRequest represents a JSON-RPC request object.
type JSONRPCRequest struct {
	// JSONRPC specifies the version of the JSON-RPC protocol, must be "2.0".
	JSONRPC string `json:"jsonrpc"`
	// ID is a unique identifier established by the client.
	// It can be a string or a number. The server must reply with the same ID.
	ID interface{} `json:"id"`
	// Method is the operation name, e.g. "writeFile" or "tools/call".
	Method string `json:"method"`
	// Params is the untyped argument bundle. Parsing is deferred until the
	// method is known and its schema has been looked up.
	Params json.RawMessage `json:"params"`
}

// JSONRPCErrorData carries the bridge error tag inside a JSON-RPC error object.
type JSONRPCErrorData struct {
	// Code is the bridge error tag, e.g. FILE_WRITE_ERROR.
	Code string `json:"code"`
	// Details is always null.
	Details interface{} `json:"details"`
}

// JSONRPCError represents a JSON-RPC error object.
type JSONRPCError struct {
	// Code is a number that indicates the error type that occurred.
	Code int `json:"code"`
	// Message is a string providing a short description of the error.
	Message string `json:"message"`
	// Data is set for bridge failures and omitted for protocol errors.
	Data *JSONRPCErrorData `json:"data,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response object.
//
// Result may legitimately be null (e.g. readFile on a missing file), so the
// response is encoded by hand: "result" is always present on success and
// never present on failure.
type JSONRPCResponse struct {
	JSONRPC string
	ID      interface{}
	Result  interface{}
	Error   *JSONRPCError
}

type jsonrpcSuccessWire struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result"`
}

type jsonrpcErrorWire struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      interface{}   `json:"id"`
	Error   *JSONRPCError `json:"error"`
}

// MarshalJSON implements json.Marshaler.
func (r JSONRPCResponse) MarshalJSON() ([]byte, error) {
	version := r.JSONRPC
	if version == "" {
		version = JSONRPCVersion
	}
	if r.Error != nil {
		return json.Marshal(jsonrpcErrorWire{JSONRPC: version, ID: r.ID, Error: r.Error})
	}
	return json.Marshal(jsonrpcSuccessWire{JSONRPC: version, ID: r.ID, Result: r.Result})
}

// UnmarshalJSON implements json.Unmarshaler. It is mainly used by clients and tests.
func (r *JSONRPCResponse) UnmarshalJSON(data []byte) error {
	var wire struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      interface{}     `json:"id"`
		Result  json.RawMessage `json:"result"`
		Error   *JSONRPCError   `json:"error"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.JSONRPC = wire.JSONRPC
	r.ID = wire.ID
	r.Error = wire.Error
	r.Result = nil
	if len(wire.Result) > 0 {
		var v interface{}
		if err := json.Unmarshal(wire.Result, &v); err != nil {
			return err
		}
		r.Result = v
	}
	return nil
}

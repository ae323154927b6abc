package errors

import (
	"fmt"
	"net/http"

	"directory-bridge-server/internal/models"
)

// JSON-RPC Error Codes (as per JSON-RPC 2.0 Specification)
const (
	CodeParseError     = -32700 // Invalid JSON was received by the server.
	CodeInvalidRequest = -32600 // The JSON sent is not a valid Request object.
	CodeMethodNotFound = -32601 // The method does not exist / is not available.
	CodeInvalidParams  = -32602 // Invalid method parameter(s).
	CodeInternalError  = -32603 // Internal JSON-RPC error.

	// CodeMethodFailed is the server-defined code used for every bridge
	// failure. The bridge error tag travels in error.data.code.
	CodeMethodFailed = -32000
)

// Bridge error tags. These are the only values that appear in
// models.ErrorDetail.Code.
const (
	InvalidArgument  = "INVALID_ARGUMENT"
	InvalidDirectory = "INVALID_DIRECTORY"
	PermissionDenied = "PERMISSION_DENIED"
	InvalidFilename  = "INVALID_FILENAME"
	FileWriteError   = "FILE_WRITE_ERROR"
	FileReadError    = "FILE_READ_ERROR"
	DirReadError     = "DIR_READ_ERROR"
	DialogError      = "DIALOG_ERROR"
	DialogBusy       = "DIALOG_BUSY"
	InternalError    = "INTERNAL_ERROR"
)

// NewErrorDetail creates a new ErrorDetail. Details is always nil.
func NewErrorDetail(code, message string) *models.ErrorDetail {
	return &models.ErrorDetail{Code: code, Message: message}
}

// NewInvalidArgumentError reports a malformed or missing call argument.
func NewInvalidArgumentError(message string) *models.ErrorDetail {
	return NewErrorDetail(InvalidArgument, message)
}

// NewInvalidDirectoryError reports a target that cannot be used as a directory.
func NewInvalidDirectoryError() *models.ErrorDetail {
	return NewErrorDetail(InvalidDirectory, "Directory does not exist or is not accessible")
}

// NewPermissionDeniedError reports a failed write probe.
func NewPermissionDeniedError() *models.ErrorDetail {
	return NewErrorDetail(PermissionDenied, "No write permission for directory")
}

// NewInvalidFilenameError reports a file name that would leave its directory.
func NewInvalidFilenameError() *models.ErrorDetail {
	return NewErrorDetail(InvalidFilename, "File name contains invalid characters")
}

// NewFileWriteError passes the native write error through verbatim.
func NewFileWriteError(err error) *models.ErrorDetail {
	return NewErrorDetail(FileWriteError, nativeMessage(err, "Failed to write file"))
}

// NewFileReadError passes the native read error through verbatim.
func NewFileReadError(err error) *models.ErrorDetail {
	return NewErrorDetail(FileReadError, nativeMessage(err, "Failed to read file"))
}

// NewDirReadError passes the native enumeration error through verbatim.
func NewDirReadError(err error) *models.ErrorDetail {
	return NewErrorDetail(DirReadError, nativeMessage(err, "Failed to read directory"))
}

// NewDialogError reports a chooser that could not be shown.
func NewDialogError(err error) *models.ErrorDetail {
	return NewErrorDetail(DialogError, nativeMessage(err, "Failed to open directory picker"))
}

// NewDialogBusyError reports that another modal chooser is still open.
func NewDialogBusyError() *models.ErrorDetail {
	return NewErrorDetail(DialogBusy, "Another directory picker is already open")
}

// NewInternalError reports an unexpected server fault.
func NewInternalError(details string) *models.ErrorDetail {
	return NewErrorDetail(InternalError, details)
}

func nativeMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}

// --- Conversion to HTTP and JSON-RPC Error Structures ---

// ToErrorResponse converts an ErrorDetail to an HTTP models.ErrorResponse.
func ToErrorResponse(errDetail *models.ErrorDetail) *models.ErrorResponse {
	if errDetail == nil {
		return nil
	}
	return &models.ErrorResponse{Error: *errDetail}
}

// ToJSONRPCError converts a bridge failure to a JSON-RPC error object.
func ToJSONRPCError(errDetail *models.ErrorDetail) *models.JSONRPCError {
	if errDetail == nil {
		return nil
	}
	return &models.JSONRPCError{
		Code:    CodeMethodFailed,
		Message: errDetail.Message,
		Data:    &models.JSONRPCErrorData{Code: errDetail.Code},
	}
}

// NewParseError creates a protocol-level error for unparsable JSON.
func NewParseError(details string) *models.JSONRPCError {
	return &models.JSONRPCError{Code: CodeParseError, Message: "Parse error: " + details}
}

// NewInvalidRequestError creates a protocol-level error for malformed request objects.
func NewInvalidRequestError(details string) *models.JSONRPCError {
	return &models.JSONRPCError{Code: CodeInvalidRequest, Message: "Invalid Request: " + details}
}

// NewMethodNotFoundError creates the protocol-level "not implemented" error.
func NewMethodNotFoundError(methodName string) *models.JSONRPCError {
	return &models.JSONRPCError{Code: CodeMethodNotFound, Message: fmt.Sprintf("Method not found: %s", methodName)}
}

// NewInvalidParamsError creates a protocol-level error for undecodable params
// of the MCP front end.
func NewInvalidParamsError(details string) *models.JSONRPCError {
	return &models.JSONRPCError{Code: CodeInvalidParams, Message: "Invalid params: " + details}
}

// ResponseToJSONRPC splits a dispatcher response into a JSON-RPC result or error.
func ResponseToJSONRPC(resp models.Response) (interface{}, *models.JSONRPCError) {
	switch {
	case resp.IsSuccess():
		return resp.Result(), nil
	case resp.IsNotImplemented():
		return nil, NewMethodNotFoundError(resp.Method())
	default:
		return nil, ToJSONRPCError(resp.Err())
	}
}

// --- HTTP Status Mapping ---

// MapErrorToHTTPStatus maps a bridge error tag to an HTTP status code.
func MapErrorToHTTPStatus(code string) int {
	switch code {
	case InvalidArgument, InvalidDirectory, InvalidFilename:
		return http.StatusBadRequest
	case PermissionDenied:
		return http.StatusForbidden
	case DialogBusy:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// MapResponseToHTTPStatus maps a full dispatcher response to an HTTP status.
func MapResponseToHTTPStatus(resp models.Response) int {
	switch {
	case resp.IsSuccess():
		return http.StatusOK
	case resp.IsNotImplemented():
		return http.StatusNotFound
	default:
		return MapErrorToHTTPStatus(resp.Err().Code)
	}
}

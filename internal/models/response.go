package models

import (
	"encoding/json"
	"fmt"
)

// ResponseStatus tags which variant a Response holds.
type ResponseStatus string

const (
	StatusSuccess        ResponseStatus = "success"
	StatusError          ResponseStatus = "error"
	StatusNotImplemented ResponseStatus = "notImplemented"
)

// Response is the platform-neutral result of one dispatched method call.
// It is exactly one of Success, Failure or NotImplemented.
type Response struct {
	status ResponseStatus
	result interface{}
	err    *ErrorDetail
	method string
}

// Success wraps a successful result. A nil value is a valid result.
func Success(value interface{}) Response {
	return Response{status: StatusSuccess, result: value}
}

// Failure wraps an error tag and message.
func Failure(code, message string) Response {
	return Response{status: StatusError, err: &ErrorDetail{Code: code, Message: message}}
}

// FailureFrom wraps an existing ErrorDetail. A nil detail is a programming
// error and is reported as INTERNAL_ERROR rather than a success.
func FailureFrom(detail *ErrorDetail) Response {
	if detail == nil {
		return Failure("INTERNAL_ERROR", "missing error detail")
	}
	return Response{status: StatusError, err: &ErrorDetail{Code: detail.Code, Message: detail.Message}}
}

// NotImplemented marks a method name the dispatcher does not recognise.
func NotImplemented(method string) Response {
	return Response{status: StatusNotImplemented, method: method}
}

func (r Response) Status() ResponseStatus { return r.status }
func (r Response) IsSuccess() bool        { return r.status == StatusSuccess }
func (r Response) IsFailure() bool        { return r.status == StatusError }
func (r Response) IsNotImplemented() bool { return r.status == StatusNotImplemented }

// Result returns the success value. It is nil for non-success responses.
func (r Response) Result() interface{} { return r.result }

// Err returns the failure detail. It is nil for non-failure responses.
func (r Response) Err() *ErrorDetail { return r.err }

// Method returns the unrecognised method name of a NotImplemented response.
func (r Response) Method() string { return r.method }

func (r Response) String() string {
	switch r.status {
	case StatusSuccess:
		return fmt.Sprintf("Success(%v)", r.result)
	case StatusError:
		return fmt.Sprintf("Failure(%s, %s)", r.err.Code, r.err.Message)
	case StatusNotImplemented:
		return fmt.Sprintf("NotImplemented(%s)", r.method)
	default:
		return "Response(<invalid>)"
	}
}

type responseWire struct {
	Status ResponseStatus   `json:"status"`
	Result *json.RawMessage `json:"result,omitempty"`
	Error  *ErrorDetail     `json:"error,omitempty"`
	Method string           `json:"method,omitempty"`
}

// MarshalJSON implements json.Marshaler. Successful responses always carry a
// "result" key, even when the value is null.
func (r Response) MarshalJSON() ([]byte, error) {
	wire := responseWire{Status: r.status}
	switch r.status {
	case StatusSuccess:
		b, err := json.Marshal(r.result)
		if err != nil {
			return nil, err
		}
		raw := json.RawMessage(b)
		wire.Result = &raw
	case StatusError:
		wire.Error = r.err
	case StatusNotImplemented:
		wire.Method = r.method
	default:
		return nil, fmt.Errorf("cannot marshal zero Response")
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler. Results decode into plain Go
// values (float64 numbers, []interface{}, map[string]interface{}).
func (r *Response) UnmarshalJSON(data []byte) error {
	var wire responseWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = Response{status: wire.Status, err: wire.Error, method: wire.Method}
	if wire.Status == StatusSuccess && wire.Result != nil {
		var v interface{}
		if err := json.Unmarshal(*wire.Result, &v); err != nil {
			return err
		}
		r.result = v
	}
	switch wire.Status {
	case StatusSuccess, StatusNotImplemented:
	case StatusError:
		if r.err == nil {
			return fmt.Errorf("error response without error object")
		}
	default:
		return fmt.Errorf("unknown response status %q", wire.Status)
	}
	return nil
}

// Package dispatch routes named bridge methods to the directory service.
//
// Every call is validated against its schema before any filesystem access,
// and every outcome, including a panic inside a handler, is returned as a
// models.Response.
package dispatch

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"runtime/debug"

	"github.com/mitchellh/mapstructure"

	"directory-bridge-server/internal/errors"
	"directory-bridge-server/internal/logger"
	"directory-bridge-server/internal/models"
	"directory-bridge-server/internal/service"
)

// argumentsNotMapMessage is reported when an operation that takes arguments
// receives anything other than an object.
const argumentsNotMapMessage = "Arguments must be a map"

type handler func(ctx context.Context, args models.Arguments) models.Response

// Dispatcher is stateless apart from its service and safe for concurrent use.
type Dispatcher struct {
	svc      service.DirectoryService
	handlers map[Operation]handler
}

// New creates a Dispatcher backed by svc.
func New(svc service.DirectoryService) *Dispatcher {
	d := &Dispatcher{svc: svc}
	d.handlers = map[Operation]handler{
		OpGetPlatformVersion:  d.getPlatformVersion,
		OpSelectDirectory:     d.selectDirectory,
		OpHasPermission:       d.hasPermission,
		OpRequestPermission:   d.requestPermission,
		OpWriteFile:           d.writeFile,
		OpListDirectory:       d.listDirectory,
		OpReadFile:            d.readFile,
		OpGetDirectoryDetails: d.getDirectoryDetails,
	}
	return d
}

// DispatchRaw decodes a JSON argument bundle and dispatches it. Unknown
// methods are reported before the bundle is looked at.
func (d *Dispatcher) DispatchRaw(ctx context.Context, method string, raw json.RawMessage) models.Response {
	op, ok := ParseOperation(method)
	if !ok {
		logger.Debug("Method not implemented: %s", method)
		return models.NotImplemented(method)
	}

	args, err := models.DecodeArguments(raw)
	if err != nil {
		// Operations without arguments ignore whatever they were sent.
		if !Schemas[op].HasRequired() {
			return d.Dispatch(ctx, method, nil)
		}
		if stdErrors.Is(err, models.ErrArgumentsNotMap) {
			return d.fail(op, errors.NewInvalidArgumentError(argumentsNotMapMessage))
		}
		return d.fail(op, errors.NewInvalidArgumentError(err.Error()))
	}
	return d.Dispatch(ctx, method, args)
}

// Dispatch validates args against the method's schema and runs it.
func (d *Dispatcher) Dispatch(ctx context.Context, method string, args models.Arguments) (resp models.Response) {
	op, ok := ParseOperation(method)
	if !ok {
		logger.Debug("Method not implemented: %s", method)
		return models.NotImplemented(method)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in %s: %v\n%s", op, r, debug.Stack())
			resp = d.fail(op, errors.NewInternalError(fmt.Sprintf("internal error in %s: %v", op, r)))
		}
	}()

	schema := Schemas[op]
	if args == nil && schema.HasRequired() {
		return d.fail(op, errors.NewInvalidArgumentError(argumentsNotMapMessage))
	}
	if err := schema.Validate(args); err != nil {
		return d.fail(op, errors.NewInvalidArgumentError(err.Error()))
	}

	logger.Debug("Dispatching %s", op)
	resp = d.handlers[op](ctx, args)
	if resp.IsFailure() {
		logger.Warn("%s failed: %s: %s", op, resp.Err().Code, resp.Err().Message)
	}
	return resp
}

func (d *Dispatcher) fail(op Operation, detail *models.ErrorDetail) models.Response {
	logger.Warn("%s failed: %s: %s", op, detail.Code, detail.Message)
	return models.FailureFrom(detail)
}

// decode copies validated arguments into a typed request struct.
func decode(args models.Arguments, out interface{}) *models.ErrorDetail {
	if err := mapstructure.Decode(args.Interface(), out); err != nil {
		return errors.NewInvalidArgumentError(err.Error())
	}
	return nil
}

// successOrNull turns a "found" flag into a Success carrying value or null.
func successOrNull(value interface{}, found bool) models.Response {
	if !found {
		return models.Success(nil)
	}
	return models.Success(value)
}

func (d *Dispatcher) getPlatformVersion(context.Context, models.Arguments) models.Response {
	return models.Success(d.svc.PlatformVersion())
}

func (d *Dispatcher) selectDirectory(ctx context.Context, _ models.Arguments) models.Response {
	path, selected, detail := d.svc.SelectDirectory(ctx)
	if detail != nil {
		return models.FailureFrom(detail)
	}
	return successOrNull(path, selected)
}

func (d *Dispatcher) hasPermission(_ context.Context, args models.Arguments) models.Response {
	var req models.DirectoryRequest
	if detail := decode(args, &req); detail != nil {
		return models.FailureFrom(detail)
	}
	return models.Success(d.svc.HasPermission(req))
}

func (d *Dispatcher) requestPermission(_ context.Context, args models.Arguments) models.Response {
	var req models.DirectoryRequest
	if detail := decode(args, &req); detail != nil {
		return models.FailureFrom(detail)
	}
	return models.Success(d.svc.RequestPermission(req))
}

func (d *Dispatcher) writeFile(_ context.Context, args models.Arguments) models.Response {
	var req models.WriteFileRequest
	if detail := decode(args, &req); detail != nil {
		return models.FailureFrom(detail)
	}
	if detail := d.svc.WriteFile(req); detail != nil {
		return models.FailureFrom(detail)
	}
	return models.Success(true)
}

func (d *Dispatcher) listDirectory(_ context.Context, args models.Arguments) models.Response {
	var req models.DirectoryRequest
	if detail := decode(args, &req); detail != nil {
		return models.FailureFrom(detail)
	}
	names, found, detail := d.svc.ListDirectory(req)
	if detail != nil {
		return models.FailureFrom(detail)
	}
	return successOrNull(names, found)
}

func (d *Dispatcher) readFile(_ context.Context, args models.Arguments) models.Response {
	var req models.ReadFileRequest
	if detail := decode(args, &req); detail != nil {
		return models.FailureFrom(detail)
	}
	content, found, detail := d.svc.ReadFile(req)
	if detail != nil {
		return models.FailureFrom(detail)
	}
	return successOrNull(content, found)
}

func (d *Dispatcher) getDirectoryDetails(_ context.Context, args models.Arguments) models.Response {
	var req models.DirectoryRequest
	if detail := decode(args, &req); detail != nil {
		return models.FailureFrom(detail)
	}
	entries, found, detail := d.svc.GetDirectoryDetails(req)
	if detail != nil {
		return models.FailureFrom(detail)
	}
	return successOrNull(entries, found)
}

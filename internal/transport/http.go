package transport

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"directory-bridge-server/internal/config"
	"directory-bridge-server/internal/dispatch"
	"directory-bridge-server/internal/errors"
	"directory-bridge-server/internal/logger"
	"directory-bridge-server/internal/models"
)

// HTTPHandler serves the bridge over HTTP.
//
// Routes:
//
//	POST /rpc                 JSON-RPC 2.0, same semantics as stdio
//	POST /v1/methods/:method  body is the argument bundle, reply is the Response envelope
//	GET  /health              liveness
type HTTPHandler struct {
	rpc        *RPCHandler
	dispatcher *dispatch.Dispatcher
	maxReqSize int64 // Max request body size in bytes
	engine     *gin.Engine
	Server     *http.Server
}

// NewHTTPHandler creates a new HTTPHandler listening on cfg.Addr().
func NewHTTPHandler(rpc *RPCHandler, d *dispatch.Dispatcher, cfg config.HTTPConfig) *HTTPHandler {
	h := &HTTPHandler{
		rpc:        rpc,
		dispatcher: d,
		maxReqSize: int64(cfg.MaxRequestSizeMB) * 1024 * 1024,
	}
	h.engine = gin.New()
	h.engine.Use(gin.Recovery(), requestLogger())
	h.RegisterRoutes(h.engine)

	h.Server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h.engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return h
}

// Handler exposes the router, mainly for httptest.
func (h *HTTPHandler) Handler() http.Handler {
	return h.engine
}

// RegisterRoutes sets up the HTTP routes for the handler.
func (h *HTTPHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.handleHealthCheck)
	r.POST("/rpc", h.handleRPC)
	r.POST("/v1/methods/:method", h.handleMethod)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func (h *HTTPHandler) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readBody reads the request body up to the configured limit. On failure the
// error status has already been written.
func (h *HTTPHandler) readBody(c *gin.Context, onError func(status int, message string)) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxReqSize)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stdErrors.As(err, &tooLarge) {
			onError(http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds maximum size of %d bytes", h.maxReqSize))
			return nil, false
		}
		onError(http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err))
		return nil, false
	}
	return body, true
}

func (h *HTTPHandler) handleRPC(c *gin.Context) {
	body, ok := h.readBody(c, func(status int, message string) {
		c.JSON(status, models.JSONRPCResponse{
			JSONRPC: models.JSONRPCVersion,
			Error:   errors.NewInvalidRequestError(message),
		})
	})
	if !ok {
		return
	}

	resp, reply := h.rpc.HandleMessage(c.Request.Context(), body)
	if !reply {
		c.Status(http.StatusNoContent)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", encodeResponse(resp))
}

func (h *HTTPHandler) handleMethod(c *gin.Context) {
	body, ok := h.readBody(c, func(status int, message string) {
		c.JSON(status, errors.ToErrorResponse(errors.NewInvalidArgumentError(message)))
	})
	if !ok {
		return
	}

	resp := h.dispatcher.DispatchRaw(c.Request.Context(), c.Param("method"), json.RawMessage(body))
	c.JSON(errors.MapResponseToHTTPStatus(resp), resp)
}

// Start runs the server until Shutdown is called. A graceful shutdown
// returns nil.
func (h *HTTPHandler) Start() error {
	logger.Info("HTTP server starting on %s (ReadTimeout: %s, WriteTimeout: %s)",
		h.Server.Addr, h.Server.ReadTimeout, h.Server.WriteTimeout)
	err := h.Server.ListenAndServe()
	if err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server ListenAndServe error: %v", err)
		return err
	}
	logger.Info("HTTP server on %s shut down", h.Server.Addr)
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx
// expires.
func (h *HTTPHandler) Shutdown(ctx context.Context) error {
	return h.Server.Shutdown(ctx)
}

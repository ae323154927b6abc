package transport

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"directory-bridge-server/internal/logger"
)

// maxLineSize bounds a single request line on stdin.
const maxLineSize = 64 * 1024 * 1024

// StdioHandler handles JSON-RPC communication over standard input/output.
// Requests are newline-delimited and answered in order.
type StdioHandler struct {
	rpc *RPCHandler
}

// NewStdioHandler creates a new StdioHandler.
func NewStdioHandler(rpc *RPCHandler) *StdioHandler {
	return &StdioHandler{rpc: rpc}
}

func (h *StdioHandler) writeLine(w io.Writer, payload []byte) {
	payload = append(payload, '\n')
	if _, err := w.Write(payload); err != nil {
		logger.Error("Error writing JSON-RPC response to output: %v", err)
	}
}

// Start processes requests from input until EOF, a read error, or ctx is
// cancelled. A request already being handled is allowed to finish.
func (h *StdioHandler) Start(ctx context.Context, input io.Reader, output io.Writer) error {
	logger.Info("Starting stdio JSON-RPC handler")

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(input)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stdio JSON-RPC handler stopped: %v", ctx.Err())
			return nil
		case line, open := <-lines:
			if !open {
				select {
				case err := <-scanErr:
					if err != nil {
						logger.Error("Error reading from stdio: %v", err)
						return err
					}
				default:
				}
				logger.Info("Stdio JSON-RPC handler finished")
				return nil
			}
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			resp, reply := h.rpc.HandleMessage(ctx, line)
			if reply {
				h.writeLine(output, encodeResponse(resp))
			}
		}
	}
}

package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
)

// StdioTransport serves MCP over newline-delimited JSON-RPC on the
// process's standard streams. Requests are handled strictly one at a
// time: each message is fully processed and its response written before
// the next line is read, so a pipelining host still sees responses in
// request order.
type StdioTransport struct {
	handler *Handler
	logger  *slog.Logger
	reader  io.Reader
	writer  io.Writer
}

// NewStdioTransport creates a transport reading stdin, writing stdout.
func NewStdioTransport(server *Server, logger *slog.Logger) *StdioTransport {
	return &StdioTransport{
		handler: NewHandler(server),
		logger:  logger,
		reader:  os.Stdin,
		writer:  os.Stdout,
	}
}

// NewStdioTransportWithIO creates a transport with custom streams, for
// tests.
func NewStdioTransportWithIO(server *Server, logger *slog.Logger, reader io.Reader, writer io.Writer) *StdioTransport {
	return &StdioTransport{
		handler: NewHandler(server),
		logger:  logger,
		reader:  reader,
		writer:  writer,
	}
}

// Start reads messages until the input closes or the context is
// cancelled. Per-request errors never stop the loop; only input
// exhaustion, a scanner failure or a write failure ends it.
func (t *StdioTransport) Start(ctx context.Context) error {
	t.logger.Info("starting MCP stdio transport")

	scanner := bufio.NewScanner(t.reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	lines := make(chan []byte)
	errs := make(chan error, 1)

	go func() {
		defer close(lines)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errs <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("stdio transport shutting down")
			return nil

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errs:
					t.logger.Error("scanner error", "error", err)
					return err
				default:
					return nil
				}
			}
			if len(line) == 0 {
				continue
			}

			resp := t.handler.HandleMessage(ctx, line)
			if resp == nil {
				continue
			}

			respBytes, err := json.Marshal(resp)
			if err != nil {
				t.logger.Error("error marshalling response", "error", err)
				continue
			}
			if _, err := t.writer.Write(append(respBytes, '\n')); err != nil {
				t.logger.Error("error writing response", "error", err)
				return err
			}
		}
	}
}

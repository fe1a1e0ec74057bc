package server

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// MessageHandler consumes one complete raw message and returns the encoded
// reply, or nil when no reply is owed.
type MessageHandler interface {
	HandleMessage(ctx context.Context, data []byte) []byte
}

// Transport reads newline-delimited JSON-RPC messages from a reader, feeds
// them to a handler, and writes replies back. It delivers exactly one
// complete message per handler call and never interleaves partial writes
// of a response.
type Transport struct {
	handler MessageHandler
	scanner *bufio.Scanner
	out     *bufio.Writer
	errOut  io.Writer
}

// NewStdioTransport creates a transport over the given streams
func NewStdioTransport(handler MessageHandler, in io.Reader, out io.Writer, errOut io.Writer) *Transport {
	scanner := bufio.NewScanner(in)
	// Set a reasonable max size for each line
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 4*1024*1024)

	return &Transport{
		handler: handler,
		scanner: scanner,
		out:     bufio.NewWriter(out),
		errOut:  errOut,
	}
}

// Run starts the transport loop, returning when the input is exhausted or
// the context is cancelled.
func (t *Transport) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if !t.scanner.Scan() {
				if err := t.scanner.Err(); err != nil {
					return fmt.Errorf("scanner error: %w", err)
				}
				return nil
			}

			line := t.scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			reply := t.handler.HandleMessage(ctx, line)
			if reply == nil {
				continue
			}
			if err := t.write(reply); err != nil {
				fmt.Fprintf(t.errOut, "Error writing response: %v\n", err)
			}
		}
	}
}

func (t *Transport) write(reply []byte) error {
	if _, err := t.out.Write(reply); err != nil {
		return err
	}
	if err := t.out.WriteByte('\n'); err != nil {
		return err
	}
	return t.out.Flush()
}

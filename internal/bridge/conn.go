package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/findmylink/companion/internal/logger"
)

// request is one outbound call to the extension side of the bridge.
type request struct {
	ID     uint64          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// response is the extension's reply, correlated by id.
type response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Conn multiplexes request/response frames over a single byte stream
// (stdio when launched as a native-messaging host, TCP in dev mode).
type Conn struct {
	writeMu sync.Mutex
	w       io.Writer

	mu      sync.Mutex
	pending map[uint64]chan response
	nextID  uint64
	closed  bool

	log logger.Logger
}

// NewConn starts the read loop over rw and returns the ready connection.
func NewConn(rw io.ReadWriter, log logger.Logger) *Conn {
	c := &Conn{
		w:       rw,
		pending: make(map[uint64]chan response),
		log:     log,
	}
	go c.readLoop(rw)
	return c
}

func (c *Conn) readLoop(r io.Reader) {
	for {
		var resp response
		if err := readFrame(r, &resp); err != nil {
			if err != io.EOF {
				c.log.Warn("bridge read failed", logger.Error(err))
			}
			c.failAll()
			return
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		delete(c.pending, resp.ID)
		c.mu.Unlock()

		if !ok {
			c.log.Warn("bridge response with unknown id",
				logger.Int("id", int(resp.ID)))
			continue
		}
		ch <- resp
	}
}

// failAll releases every waiter after the stream dies. In-flight calls get
// a terminal error; there is no reconnect.
func (c *Conn) failAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// Call sends one request and blocks until the matching response arrives or
// ctx is done. There is no per-call timeout of its own; a hung extension
// side simply never resolves unless the caller's context expires.
func (c *Conn) Call(ctx context.Context, method string, params, result any) error {
	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("failed to marshal params for %s: %w", method, err)
		}
		raw = data
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("bridge connection closed")
	}
	c.nextID++
	id := c.nextID
	ch := make(chan response, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	c.writeMu.Lock()
	err := writeFrame(c.w, request{ID: id, Method: method, Params: raw})
	c.writeMu.Unlock()
	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return fmt.Errorf("bridge call %s failed: %w", method, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return fmt.Errorf("bridge connection closed during %s", method)
		}
		if resp.Error != "" {
			return fmt.Errorf("bridge call %s failed: %s", method, resp.Error)
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
			}
		}
		return nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return ctx.Err()
	}
}

package transport

import (
	"bytes"
	"io"
	"sync"
	"time"
)

// testPort is an in-memory loopback stand-in for a serial port, selected
// by the device name "test" so unit tests and examples never need a real
// device attached. Writes made to it are available for assertions and its
// read side can be primed with canned frames (grounded on
// original_source's TestSerialPort harness).
type testPort struct {
	mu      sync.Mutex
	written bytes.Buffer
	toRead  bytes.Buffer
	timeout time.Duration
	closed  bool
}

func newTestPort() *testPort {
	return &testPort{timeout: time.Second}
}

func (p *testPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	if p.toRead.Len() == 0 {
		return 0, &Timeout{Cause: io.EOF}
	}
	return p.toRead.Read(b)
}

func (p *testPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	return p.written.Write(b)
}

func (p *testPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *testPort) SetReadTimeout(d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.timeout = d
	return nil
}

func (p *testPort) ResetInputBuffer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toRead.Reset()
	return nil
}

// Feed queues bytes for the next Read calls, simulating a device reply.
func (p *testPort) Feed(b []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toRead.Write(b)
}

// Written returns a copy of everything written to the port so far.
func (p *testPort) Written() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]byte(nil), p.written.Bytes()...)
}

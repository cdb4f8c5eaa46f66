package mgmt

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/rudislabs/mcumgr-client/pkg/fleet"
	"github.com/rudislabs/mcumgr-client/pkg/nmp"
	"github.com/rudislabs/mcumgr-client/pkg/transport"
)

// Client owns a single Transport and applies the command-adapter-level
// retry policy on top of it (spec.md §6.9). It is not safe for
// concurrent use by multiple goroutines, matching spec.md §5's
// single-owner transport contract.
type Client struct {
	Transport transport.Transport
	NbRetry   int

	// ChunkSize bounds how many payload bytes FileUpload/ImageUpload
	// pack into one request body. Zero derives a chunk size from the
	// transport's own MTU() (spec.md §4.6 dispatcher contract), falling
	// back to defaultChunkSize only when the transport reports none.
	ChunkSize int

	// Device names this client's target for fleet publication; empty by
	// default, in which case Fleet publish calls are skipped entirely.
	Device string

	// Fleet is an optional observability sink; nil by default, in which
	// case every publish call below is a no-op (spec.md §8 domain stack).
	Fleet *fleet.Publisher
}

// defaultChunkSize is a conservative upload chunk size used only when
// neither Client.ChunkSize nor the transport's own MTU() is available;
// callers transferring to devices with larger SMP buffers (see
// McumgrParams) should raise Client.ChunkSize accordingly.
const defaultChunkSize = 488

// chunkEnvelopeOverhead budgets CBOR bytes for the upload request's
// non-data fields (name/off/len/image/sha/upgrade keys and their
// values) so a chunk sized off the transport MTU still leaves room for
// the envelope around it.
const chunkEnvelopeOverhead = 64

func (c *Client) chunkSize() int {
	if c.ChunkSize > 0 {
		return c.ChunkSize
	}
	if c.Transport != nil {
		if mtu := c.Transport.MTU(); mtu > chunkEnvelopeOverhead {
			return mtu - chunkEnvelopeOverhead
		}
	}
	return defaultChunkSize
}

// NewSerialClient opens a serial transport and wraps it in a Client.
func NewSerialClient(specs transport.SerialSpecs, nbRetry int) (*Client, error) {
	tr, err := transport.NewSerialTransport(specs)
	if err != nil {
		return nil, err
	}
	return &Client{Transport: tr, NbRetry: nbRetry}, nil
}

// NewUDPClient opens a UDP transport and wraps it in a Client.
func NewUDPClient(specs transport.UDPSpecs, nbRetry int) (*Client, error) {
	tr, err := transport.NewUDPTransport(specs)
	if err != nil {
		return nil, err
	}
	return &Client{Transport: tr, NbRetry: nbRetry}, nil
}

// transceive retries only on Timeout, up to NbRetry additional attempts,
// matching spec.md §7 ("retry policy is a property of the command
// adapter, not the transport").
func (c *Client) transceive(op nmp.Op, group nmp.Group, id uint8, reqBody []byte) (nmp.Header, []byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.NbRetry; attempt++ {
		header, body, err := c.Transport.Transceive(op, group, id, reqBody)
		if err == nil {
			return header, body, nil
		}
		lastErr = err
		var timeout *transport.Timeout
		if !errors.As(err, &timeout) {
			return nmp.Header{}, nil, err
		}
	}
	return nmp.Header{}, nil, lastErr
}

// call marshals req (or sends no body when req is nil), transceives,
// decodes the response into rsp, and turns a non-zero rc into a
// DeviceError. rsp must be a pointer to a struct with an RC field
// compatible with nmp's `cbor:"rc,omitempty"` convention.
func (c *Client) call(op nmp.Op, group nmp.Group, id uint8, req, rsp any) error {
	var reqBody []byte
	if req != nil {
		b, err := cbor.Marshal(req)
		if err != nil {
			return fmt.Errorf("mgmt: encode request: %w", err)
		}
		reqBody = b
	}

	_, rspBody, err := c.transceive(op, group, id, reqBody)
	if err != nil {
		return err
	}

	if rsp != nil {
		if err := cbor.Unmarshal(rspBody, rsp); err != nil {
			return fmt.Errorf("mgmt: decode response: %w", err)
		}
	}

	rc, err := nmp.ExtractRC(rspBody)
	if err != nil {
		return fmt.Errorf("mgmt: decode rc: %w", err)
	}
	if rc != 0 {
		return &DeviceError{RC: rc}
	}
	return nil
}

// callNoRC behaves like call but never turns a non-zero rc into a
// DeviceError: it decodes rsp and returns unconditionally. Shell/Exec
// uses this because its rc is the executed command's exit status, not a
// protocol-level failure (original_source/src/shell.rs shell_exec
// returns the full response regardless of rc).
func (c *Client) callNoRC(op nmp.Op, group nmp.Group, id uint8, req, rsp any) error {
	var reqBody []byte
	if req != nil {
		b, err := cbor.Marshal(req)
		if err != nil {
			return fmt.Errorf("mgmt: encode request: %w", err)
		}
		reqBody = b
	}

	_, rspBody, err := c.transceive(op, group, id, reqBody)
	if err != nil {
		return err
	}

	if rsp != nil {
		if err := cbor.Unmarshal(rspBody, rsp); err != nil {
			return fmt.Errorf("mgmt: decode response: %w", err)
		}
	}
	return nil
}

// publishProgress forwards a transfer step to the optional fleet sink.
// Safe to call with a nil Client.Fleet or an empty Client.Device.
func (c *Client) publishProgress(stage string, off, total uint32) {
	if c.Device == "" {
		return
	}
	c.Fleet.PublishProgress(c.Device, stage, off, total)
}

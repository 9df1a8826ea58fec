package kernel

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/embedded-rpc/kernrpc/alloc"
	"github.com/embedded-rpc/kernrpc/cursor"
	"github.com/embedded-rpc/kernrpc/layout"
	"github.com/embedded-rpc/kernrpc/rpc"
	"github.com/embedded-rpc/kernrpc/tag"
	"github.com/embedded-rpc/kernrpc/wire"
)

// Dispatcher reads one RPC call at a time off r, decodes its arguments,
// runs the registered Handler, and writes the return value to w. It
// models the loop the value codec itself is silent about: something has
// to read a service id off the wire, walk rpc.RecvValue over each
// argument tag, and hand the result to rpc.SendValue.
type Dispatcher struct {
	r        wire.Reader
	w        wire.Writer
	services *ServiceTable
	al       alloc.Allocator
}

// NewDispatcher builds a Dispatcher reading calls from r, writing return
// values to w, resolving service ids through services, and satisfying
// every RecvValue/SendValue allocation through al. al is expected to be
// reset by the caller between calls (e.g. an *alloc.Arena via Reset),
// mirroring the kernel-side allocator lifetime.
func NewDispatcher(r wire.Reader, w wire.Writer, services *ServiceTable, al alloc.Allocator) *Dispatcher {
	return &Dispatcher{r: r, w: w, services: services, al: al}
}

// Serve processes exactly one RPC call: a service id, its arguments, and
// the resulting return value. It blocks on the next read from r; ctx is
// consulted only between calls; a transport that doesn't support
// cancellation will simply block past ctx's deadline on that read.
func (d *Dispatcher) Serve(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	serviceID, err := d.r.ReadU32()
	if err != nil {
		return fmt.Errorf("kernel: reading service id: %w", err)
	}

	entry, err := d.services.lookup(serviceID)
	if err != nil {
		return err
	}

	argTagBytes, returnTagBytes, err := tag.SplitSignature(entry.signature)
	if err != nil {
		return fmt.Errorf("kernel: service %d: %w", serviceID, err)
	}

	args, err := d.recvArgs(argTagBytes)
	if err != nil {
		return fmt.Errorf("kernel: service %d: decoding arguments: %w", serviceID, err)
	}

	ret, err := entry.handler(args, d.al)
	if err != nil {
		return fmt.Errorf("kernel: service %d: handler: %w", serviceID, err)
	}

	returnIt := tag.NewIterator(returnTagBytes)
	returnTag, err := returnIt.Next()
	if err != nil {
		return fmt.Errorf("kernel: service %d: return tag: %w", serviceID, err)
	}

	if err := rpc.SendValue(d.w, returnTag, ret, d.al); err != nil {
		return fmt.Errorf("kernel: service %d: writing return: %w", serviceID, err)
	}

	if f, ok := d.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("kernel: service %d: flush: %w", serviceID, err)
		}
	}
	return nil
}

// recvArgs decodes one cursor per argument tag in argTagBytes, each sized
// exactly to hold that argument's value, so a Handler never has to reason
// about the layout of its neighbors.
func (d *Dispatcher) recvArgs(argTagBytes []byte) ([]*cursor.Cursor, error) {
	it := tag.NewIterator(argTagBytes)

	var args []*cursor.Cursor
	for {
		t, err := it.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		buf := make([]byte, layout.Size(t))
		c := cursor.New(buf)
		if err := rpc.RecvValue(d.r, t, c, d.al); err != nil {
			return nil, err
		}
		args = append(args, cursor.New(buf))
	}
	return args, nil
}

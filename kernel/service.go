package kernel

import (
	"fmt"
	"sync"

	"github.com/embedded-rpc/kernrpc/alloc"
	"github.com/embedded-rpc/kernrpc/cursor"
)

// Handler implements one RPC service: given the decoded argument values
// (one cursor per argument, in declaration order, mirroring the shape
// rpc.SendArgs itself takes), it produces the return value as a cursor
// over its in-memory representation, ready for rpc.SendValue.
type Handler func(args []*cursor.Cursor, al alloc.Allocator) (ret *cursor.Cursor, err error)

type serviceEntry struct {
	signature []byte
	handler   Handler
}

// ServiceTable maps the small integer service ids carried in each RPC
// request to the Handler that implements them and the tag signature it
// was compiled against, mirroring the kernel's RPC call sites, which
// each name a service by id rather than by name.
type ServiceTable struct {
	mu      sync.RWMutex
	entries map[uint32]serviceEntry
}

// NewServiceTable returns an empty ServiceTable.
func NewServiceTable() *ServiceTable {
	return &ServiceTable{entries: make(map[uint32]serviceEntry)}
}

// Register installs h as the handler for serviceID, with signature as
// its full "args:return" tag string, replacing any previous
// registration.
func (s *ServiceTable) Register(serviceID uint32, signature string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[serviceID] = serviceEntry{signature: []byte(signature), handler: h}
}

func (s *ServiceTable) lookup(serviceID uint32) (serviceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[serviceID]
	if !ok {
		return serviceEntry{}, fmt.Errorf("kernel: no service registered for id %d", serviceID)
	}
	return entry, nil
}

package cursor

import "github.com/embedded-rpc/kernrpc/alloc"

// ReadRef reads an alloc.Ref (the in-memory stand-in for a raw pointer)
// at the cursor and advances past it.
func (c *Cursor) ReadRef() alloc.Ref {
	return alloc.Ref(c.ReadU32())
}

// WriteRef writes an alloc.Ref at the cursor and advances past it.
func (c *Cursor) WriteRef(r alloc.Ref) {
	c.WriteU32(uint32(r))
}

//go:build unix

package alloc

import "golang.org/x/sys/unix"

// NewPageArena allocates an Arena backed by a private, anonymous mmap
// region instead of a plain Go slice. A full page allocation trivially
// satisfies the allocator's "suitably aligned for any payload scalar"
// contract, and keeps the arena's backing memory off the Go heap so it
// isn't scanned by the garbage collector -- useful when the arena holds
// long-lived kernel-side buffers across many RPCs.
//
// capacity is rounded up to the host page size.
func NewPageArena(capacity int) (*Arena, error) {
	pageSize := unix.Getpagesize()
	rounded := roundUpToPage(capacity, pageSize)

	backing, err := unix.Mmap(-1, 0, rounded, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, &Error{Err: err}
	}

	return newArenaWithBacking(backing), nil
}

// Unmap releases the arena's mmap-backed memory. It must not be used
// again afterwards. Only meaningful for arenas created with NewPageArena;
// calling it on a plain NewArena is a programmer error.
func (a *Arena) Unmap() error {
	if err := unix.Munmap(a.backing); err != nil {
		return &Error{Err: err}
	}
	return nil
}

func roundUpToPage(n, pageSize int) int {
	maxRem := pageSize - 1
	return (n + maxRem) &^ maxRem
}

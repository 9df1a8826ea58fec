package kernel

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ServiceSnapshot is the diagnostic-only view of one registered service:
// its id and tag signature, with no reference to the Go Handler closure
// behind it (that isn't serializable, and isn't useful outside the
// running process anyway).
type ServiceSnapshot struct {
	ServiceID uint32 `cbor:"service_id"`
	Signature string `cbor:"signature"`
}

// Snapshot returns the registered services as a stable-ordered, CBOR-
// encodable view, for `cmd/rpcdump -snapshot`-style diagnostics dumps.
// This is purely ambient tooling -- the wire protocol itself never
// carries a service table snapshot, per spec.md's non-goal of schema
// negotiation.
func (s *ServiceTable) Snapshot() []ServiceSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ServiceSnapshot, 0, len(s.entries))
	for id, entry := range s.entries {
		out = append(out, ServiceSnapshot{ServiceID: id, Signature: string(entry.signature)})
	}
	sortSnapshots(out)
	return out
}

func sortSnapshots(snaps []ServiceSnapshot) {
	// Insertion sort: the service tables this harness handles are small
	// (tens of entries at most), and this avoids pulling in sort just
	// for a diagnostics dump ordering.
	for i := 1; i < len(snaps); i++ {
		for j := i; j > 0 && snaps[j].ServiceID < snaps[j-1].ServiceID; j-- {
			snaps[j], snaps[j-1] = snaps[j-1], snaps[j]
		}
	}
}

// EncodeSnapshot CBOR-encodes a service table snapshot for writing to a
// diagnostics dump file.
func EncodeSnapshot(snaps []ServiceSnapshot) ([]byte, error) {
	data, err := cbor.Marshal(snaps)
	if err != nil {
		return nil, fmt.Errorf("kernel: encoding snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot reverses EncodeSnapshot, for a CLI that wants to print a
// previously captured snapshot.
func DecodeSnapshot(data []byte) ([]ServiceSnapshot, error) {
	var snaps []ServiceSnapshot
	if err := cbor.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("kernel: decoding snapshot: %w", err)
	}
	return snaps, nil
}

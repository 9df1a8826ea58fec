package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Stream implements Reader and Writer over a pair of io.Reader/io.Writer,
// generalizing the teacher's whole-buffer big-endian parsing
// (osc.readInt/readFloat/ReadString) to an incremental stream.
type Stream struct {
	r *bufio.Reader
	w *bufio.Writer
}

// NewStream wraps r and w. Either may be nil if only reading or only
// writing is needed.
func NewStream(r io.Reader, w io.Writer) *Stream {
	s := &Stream{}
	if r != nil {
		s.r = bufio.NewReader(r)
	}
	if w != nil {
		s.w = bufio.NewWriter(w)
	}
	return s
}

func (s *Stream) ReadU8() (uint8, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, &Error{Err: err}
	}
	return b, nil
}

func (s *Stream) ReadU32() (uint32, error) {
	var buf [4]byte
	if err := s.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func (s *Stream) ReadU64() (uint64, error) {
	var buf [8]byte
	if err := s.readFull(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func (s *Stream) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := s.readFull(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *Stream) ReadExact(dst []byte) error {
	return s.readFull(dst)
}

func (s *Stream) ReadString() (string, error) {
	n, err := s.ReadU32()
	if err != nil {
		return "", err
	}
	buf, err := s.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (s *Stream) readFull(dst []byte) error {
	if _, err := io.ReadFull(s.r, dst); err != nil {
		return &Error{Err: err}
	}
	return nil
}

func (s *Stream) WriteU8(v uint8) error {
	if err := s.w.WriteByte(v); err != nil {
		return &Error{Err: err}
	}
	return nil
}

func (s *Stream) WriteU32(v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	return s.writeFull(buf[:])
}

func (s *Stream) WriteU64(v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return s.writeFull(buf[:])
}

func (s *Stream) WriteBytes(b []byte) error {
	if err := s.WriteU32(uint32(len(b))); err != nil {
		return err
	}
	return s.writeFull(b)
}

func (s *Stream) WriteString(str string) error {
	return s.WriteBytes([]byte(str))
}

func (s *Stream) WriteRaw(data []byte) error {
	return s.writeFull(data)
}

func (s *Stream) writeFull(b []byte) error {
	if _, err := s.w.Write(b); err != nil {
		return &Error{Err: err}
	}
	return nil
}

// Flush pushes any buffered writes out to the underlying io.Writer. Callers
// must call it after a request/response exchange; the codec itself never
// flushes on its own.
func (s *Stream) Flush() error {
	if err := s.w.Flush(); err != nil {
		return &Error{Err: fmt.Errorf("flush: %w", err)}
	}
	return nil
}

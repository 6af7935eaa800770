package utils

import (
	"encoding/binary"
	"fmt"
	"io"
)

// OutputBuf accumulates a little-endian binary encoding.
type OutputBuf struct {
	buf []byte
}

func (o *OutputBuf) AppendUint8(x uint8) {
	o.buf = append(o.buf, x)
}

func (o *OutputBuf) AppendUint16(x uint16) {
	o.buf = binary.LittleEndian.AppendUint16(o.buf, x)
}

func (o *OutputBuf) AppendUint64(x uint64) {
	o.buf = binary.LittleEndian.AppendUint64(o.buf, x)
}

func (o *OutputBuf) AppendBytes(b []byte) {
	o.buf = append(o.buf, b...)
}

func (o *OutputBuf) Bytes() []byte {
	return o.buf
}

// InputBuf reads what OutputBuf wrote. Reads past the end fail with
// io.ErrUnexpectedEOF and leave the buffer untouched.
type InputBuf struct {
	buf []byte
}

func NewInputBuf(buf []byte) *InputBuf {
	return &InputBuf{buf: buf}
}

func (i *InputBuf) Len() int {
	return len(i.buf)
}

func (i *InputBuf) ReadBytes(n int) ([]byte, error) {
	if n > len(i.buf) {
		return nil, fmt.Errorf("reading %d bytes, %d left: %w", n, len(i.buf), io.ErrUnexpectedEOF)
	}
	b := i.buf[:n]
	i.buf = i.buf[n:]
	return b, nil
}

func (i *InputBuf) ReadUint8() (uint8, error) {
	b, err := i.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (i *InputBuf) ReadUint16() (uint16, error) {
	b, err := i.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (i *InputBuf) ReadUint64() (uint64, error) {
	b, err := i.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

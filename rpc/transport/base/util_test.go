package base

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		seqID uint64
		data  []byte
		buf   []byte
	}{
		{name: "Small payload", seqID: 1, data: []byte("hello"), buf: make([]byte, 16)},
		{name: "Empty payload", seqID: 2, data: []byte{}, buf: make([]byte, 16)},
		{name: "Buffer too small", seqID: 3, data: bytes.Repeat([]byte("x"), 100), buf: make([]byte, 8)},
		{name: "No buffer", seqID: 1 << 40, data: []byte("abc"), buf: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			if err := WriteFrame(&b, tt.seqID, tt.data); err != nil {
				t.Fatalf("WriteFrame() error = %v", err)
			}
			if b.Len() != frameHeaderSize+len(tt.data) {
				t.Errorf("frame size = %d, want %d", b.Len(), frameHeaderSize+len(tt.data))
			}

			seqID, data, err := ReadFrame(&b, tt.buf)
			if err != nil {
				t.Fatalf("ReadFrame() error = %v", err)
			}
			if seqID != tt.seqID {
				t.Errorf("seqID = %d, want %d", seqID, tt.seqID)
			}
			if !bytes.Equal(data, tt.data) {
				t.Errorf("data = %q, want %q", data, tt.data)
			}
		})
	}
}

func TestReadFrameErrors(t *testing.T) {
	header := func(seqID uint64, length uint32) []byte {
		h := make([]byte, frameHeaderSize)
		binary.BigEndian.PutUint64(h[:8], seqID)
		binary.BigEndian.PutUint32(h[8:], length)
		return h
	}

	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{name: "Empty stream", input: nil, wantErr: io.EOF},
		{name: "Short header", input: []byte{0, 0, 1}, wantErr: io.ErrUnexpectedEOF},
		{name: "Short body", input: append(header(1, 10), 'a', 'b'), wantErr: io.ErrUnexpectedEOF},
		{name: "Missing body", input: header(1, 10), wantErr: io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadFrame(bytes.NewReader(tt.input), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ReadFrame() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("Oversized frame", func(t *testing.T) {
		_, _, err := ReadFrame(bytes.NewReader(header(1, MaxFrameSize+1)), nil)
		if err == nil {
			t.Errorf("ReadFrame() accepted an oversized frame")
		}
	})
}

func TestWriteFrameIsNotFlushed(t *testing.T) {
	var sink bytes.Buffer
	w := &countingWriter{w: &sink}

	if err := WriteFrame(w, 5, []byte("payload")); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	// header and payload are written separately
	if w.writes != 2 {
		t.Errorf("writes = %d, want 2", w.writes)
	}
}

type countingWriter struct {
	w      io.Writer
	writes int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.writes++
	return c.w.Write(p)
}

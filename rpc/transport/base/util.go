package base

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// frameHeaderSize is 8 bytes for the sequence id + 4 bytes for the content length
	frameHeaderSize = 12

	// MaxFrameSize is the largest payload accepted by readFrame (64 MB)
	MaxFrameSize = 64 * 1024 * 1024
)

// WriteFrame writes a frame to w with the format:
// - 8 bytes: seqID (uint64, big endian)
// - 4 bytes: data length (uint32, big endian)
// - N bytes: data payload
//
// The frame is not flushed; buffered writers must be flushed by the caller.
func WriteFrame(w io.Writer, seqID uint64, data []byte) error {
	if len(data) > MaxFrameSize {
		return fmt.Errorf("frame of %d bytes exceeds the maximum of %d bytes", len(data), MaxFrameSize)
	}

	var header [frameHeaderSize]byte
	binary.BigEndian.PutUint64(header[:8], seqID)
	binary.BigEndian.PutUint32(header[8:12], uint32(len(data)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// ReadFrame reads a frame from r using the provided buffer.
// If the buffer is too small, a new buffer is allocated for the data.
// io.EOF is only returned if the stream ended before the first header byte.
func ReadFrame(r io.Reader, buf []byte) (uint64, []byte, error) {
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, err
	}

	seqID := binary.BigEndian.Uint64(header[:8])
	contentLength := binary.BigEndian.Uint32(header[8:12])

	if contentLength > MaxFrameSize {
		return seqID, nil, fmt.Errorf("frame of %d bytes exceeds the maximum of %d bytes", contentLength, MaxFrameSize)
	}

	// If no data, return empty slice
	if contentLength == 0 {
		return seqID, []byte{}, nil
	}

	// Check if buffer is large enough for data
	if len(buf) < int(contentLength) {
		buf = make([]byte, contentLength)
	}

	if _, err := io.ReadFull(r, buf[:contentLength]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, nil, err
	}

	return seqID, buf[:contentLength], nil
}

package protocol

import (
	"fmt"
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"github.com/ValentinKolb/dynoKV/rpc/serializer"
	"github.com/ValentinKolb/dynoKV/rpc/transport"
	"github.com/ValentinKolb/dynoKV/rpc/transport/base"
	"github.com/lni/dragonboat/v4/logger"
	"time"
)

var Logger = logger.GetLogger("rpc")

// IProtocol is the framing layer between a generated client and an open stream
type IProtocol interface {
	// Call sends req and blocks until the matching reply was read
	Call(req *common.Message) (*common.Message, error)
	// Close closes the underlying stream
	Close() error
}

// binaryProtocol frames serialized messages onto a buffered stream.
// It is not safe for concurrent use.
type binaryProtocol struct {
	stream     transport.IStreamTransport
	serializer serializer.IRPCSerializer
	timeout    time.Duration
	seqID      uint64
	buf        []byte
}

// NewBinaryProtocol creates a protocol on top of an already open stream.
// A timeout > 0 is applied as read and write deadline to every call.
func NewBinaryProtocol(stream transport.IStreamTransport, s serializer.IRPCSerializer, timeout time.Duration) IProtocol {
	return &binaryProtocol{
		stream:     stream,
		serializer: s,
		timeout:    timeout,
	}
}

func (p *binaryProtocol) Call(req *common.Message) (*common.Message, error) {
	reqBytes, err := p.serializer.Serialize(*req)
	if err != nil {
		return nil, err
	}

	if p.timeout > 0 {
		if err := p.stream.SetDeadline(time.Now().Add(p.timeout)); err != nil {
			return nil, err
		}
	}

	p.seqID++
	seqID := p.seqID

	if err := base.WriteFrame(p.stream, seqID, reqBytes); err != nil {
		return nil, err
	}
	if err := p.stream.Flush(); err != nil {
		return nil, err
	}

	var respBytes []byte
	for {
		respSeqID, data, err := base.ReadFrame(p.stream, p.buf)
		if err != nil {
			return nil, err
		}
		// keep the largest buffer for the next call
		if cap(data) > cap(p.buf) {
			p.buf = data[:cap(data)]
		}

		if respSeqID == seqID {
			respBytes = data
			break
		}
		if respSeqID > seqID {
			return nil, fmt.Errorf("out of sequence response: got %d, expected %d", respSeqID, seqID)
		}

		// late reply of a call that already failed, e.g. by timeout
		Logger.Warningf("Dropping stale response %d, expected %d", respSeqID, seqID)
	}

	resp := &common.Message{}
	if err := p.serializer.Deserialize(respBytes, resp); err != nil {
		return nil, fmt.Errorf("failed to deserialize %s response: %w", req.MsgType, err)
	}

	return resp, nil
}

func (p *binaryProtocol) Close() error {
	return p.stream.Close()
}

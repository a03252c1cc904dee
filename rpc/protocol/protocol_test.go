package protocol

import (
	"github.com/ValentinKolb/dynoKV/rpc/common"
	"github.com/ValentinKolb/dynoKV/rpc/serializer"
	"github.com/ValentinKolb/dynoKV/rpc/transport/base"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// fakeServer answers frames on conn. reply builds the response for a request,
// seqShift is added to the sequence id of every reply.
func fakeServer(t *testing.T, conn net.Conn, s serializer.IRPCSerializer, seqShift uint64, reply func(*common.Message) *common.Message) {
	t.Helper()
	go func() {
		defer conn.Close()
		stream := base.NewBufferedTransport(conn, 0)
		for {
			seqID, data, err := base.ReadFrame(stream, nil)
			if err != nil {
				return
			}
			var req common.Message
			if err := s.Deserialize(data, &req); err != nil {
				return
			}
			resp, err := s.Serialize(*reply(&req))
			if err != nil {
				return
			}
			if err := base.WriteFrame(stream, seqID+seqShift, resp); err != nil {
				return
			}
			if err := stream.Flush(); err != nil {
				return
			}
		}
	}()
}

func TestCall(t *testing.T) {
	s := serializer.NewBinarySerializer()
	c1, c2 := net.Pipe()

	fakeServer(t, c2, s, 0, func(req *common.Message) *common.Message {
		return common.NewHasResponse(int32(len(req.Key)), nil)
	})

	p := NewBinaryProtocol(base.NewBufferedTransport(c1, 0), s, time.Second)
	defer p.Close()

	for _, key := range []string{"a", "abc", "abcdef"} {
		resp, err := p.Call(common.NewHasRequest([]byte(key)))
		if err != nil {
			t.Fatalf("Call() error = %v", err)
		}
		if resp.MsgType != common.MsgTHas {
			t.Errorf("MsgType = %s, want %s", resp.MsgType, common.MsgTHas)
		}
		if resp.Count != int32(len(key)) {
			t.Errorf("Count = %d, want %d", resp.Count, len(key))
		}
	}
}

func TestCallOutOfSequence(t *testing.T) {
	s := serializer.NewBinarySerializer()
	c1, c2 := net.Pipe()

	fakeServer(t, c2, s, 1, func(req *common.Message) *common.Message {
		return common.NewHasResponse(1, nil)
	})

	p := NewBinaryProtocol(base.NewBufferedTransport(c1, 0), s, time.Second)
	defer p.Close()

	_, err := p.Call(common.NewHasRequest([]byte("k")))
	if err == nil || !strings.Contains(err.Error(), "out of sequence") {
		t.Errorf("Call() error = %v, want out of sequence error", err)
	}
}

func TestCallDropsStaleResponses(t *testing.T) {
	s := serializer.NewBinarySerializer()
	c1, c2 := net.Pipe()

	// Every reply is preceded by a frame with an older sequence id
	go func() {
		defer c2.Close()
		stream := base.NewBufferedTransport(c2, 0)
		for {
			seqID, data, err := base.ReadFrame(stream, nil)
			if err != nil {
				return
			}
			var req common.Message
			if err := s.Deserialize(data, &req); err != nil {
				return
			}
			stale, _ := s.Serialize(*common.NewHasResponse(-1, nil))
			resp, _ := s.Serialize(*common.NewHasResponse(int32(len(req.Key)), nil))
			if err := base.WriteFrame(stream, seqID-1, stale); err != nil {
				return
			}
			if err := base.WriteFrame(stream, seqID, resp); err != nil {
				return
			}
			if err := stream.Flush(); err != nil {
				return
			}
		}
	}()

	p := NewBinaryProtocol(base.NewBufferedTransport(c1, 0), s, time.Second)
	defer p.Close()

	for _, key := range []string{"a", "abc"} {
		resp, err := p.Call(common.NewHasRequest([]byte(key)))
		if err != nil {
			t.Fatalf("Call(%q) error = %v", key, err)
		}
		if resp.Count != int32(len(key)) {
			t.Errorf("Call(%q) Count = %d, want %d", key, resp.Count, len(key))
		}
	}
}

func TestCallRecoversAfterTimeout(t *testing.T) {
	s := serializer.NewBinarySerializer()
	const (
		timeout = 100 * time.Millisecond
		delay   = 300 * time.Millisecond
	)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	defer ln.Close()

	// Only the first request is answered late
	var calls atomic.Int32
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		fakeServer(t, conn, s, 0, func(req *common.Message) *common.Message {
			if calls.Add(1) == 1 {
				time.Sleep(delay)
			}
			return common.NewHasResponse(int32(len(req.Key)), nil)
		})
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	p := NewBinaryProtocol(base.NewBufferedTransport(conn, 0), s, timeout)
	defer p.Close()

	_, err = p.Call(common.NewHasRequest([]byte("slow")))
	netErr, ok := err.(net.Error)
	if !ok || !netErr.Timeout() {
		t.Fatalf("first Call() error = %v, want timeout", err)
	}

	// let the late reply arrive before the next call
	time.Sleep(delay)

	for _, key := range []string{"a", "ab", "abc"} {
		resp, err := p.Call(common.NewHasRequest([]byte(key)))
		if err != nil {
			t.Fatalf("Call(%q) error = %v", key, err)
		}
		if resp.Count != int32(len(key)) {
			t.Errorf("Call(%q) Count = %d, want %d", key, resp.Count, len(key))
		}
	}
}

func TestCallTimeout(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c2.Close()

	// Drain requests without ever answering
	go func() {
		buf := make([]byte, 1024)
		for {
			if _, err := c2.Read(buf); err != nil {
				return
			}
		}
	}()

	p := NewBinaryProtocol(base.NewBufferedTransport(c1, 0), serializer.NewBinarySerializer(), 50*time.Millisecond)
	defer p.Close()

	_, err := p.Call(common.NewGetRequest([]byte("k")))
	netErr, ok := err.(net.Error)
	if !ok || !netErr.Timeout() {
		t.Errorf("Call() error = %v, want timeout", err)
	}
}

func TestCallAfterClose(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c2.Close()

	p := NewBinaryProtocol(base.NewBufferedTransport(c1, 0), serializer.NewBinarySerializer(), 0)
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := p.Call(common.NewGetRequest([]byte("k"))); err == nil {
		t.Errorf("Call() on a closed protocol should fail")
	}
}

package antivirus

import (
	"context"
	"encoding/binary"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd accepts one connection, drains the INSTREAM payload and replies.
func fakeClamd(t *testing.T, reply string) (string, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		cmd := make([]byte, len("zINSTREAM\x00"))
		if _, err := io.ReadFull(conn, cmd); err != nil {
			return
		}
		var payload []byte
		size := make([]byte, 4)
		for {
			if _, err := io.ReadFull(conn, size); err != nil {
				return
			}
			n := binary.BigEndian.Uint32(size)
			if n == 0 {
				break
			}
			chunk := make([]byte, n)
			if _, err := io.ReadFull(conn, chunk); err != nil {
				return
			}
			payload = append(payload, chunk...)
		}
		received <- payload
		_, _ = conn.Write([]byte(reply + "\x00"))
	}()

	return ln.Addr().String(), received
}

func TestClamAVClean(t *testing.T) {
	addr, received := fakeClamd(t, "stream: OK")
	scanner := NewClamAVScanner(addr, 0)

	res := scanner.Scan(context.Background(), "cv.pdf", []byte("%PDF-1.4 hello"))
	assert.False(t, res.Infected)
	assert.NoError(t, res.Error)
	assert.Equal(t, "%PDF-1.4 hello", string(<-received))
}

func TestClamAVFound(t *testing.T) {
	addr, _ := fakeClamd(t, "stream: Eicar-Signature FOUND")
	res := NewClamAVScanner(addr, 0).Scan(context.Background(), "cv.pdf", []byte("X5O!P%@AP"))
	assert.True(t, res.Infected)
	assert.Equal(t, "Eicar-Signature", res.ThreatName)
}

func TestClamAVUnreachableFailsClosed(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	res := NewClamAVScanner(addr, 0).Scan(context.Background(), "cv.pdf", []byte("data"))
	assert.True(t, res.Infected)
	assert.Error(t, res.Error)
}

func TestNewWithoutAddress(t *testing.T) {
	scanner := New("")
	assert.Equal(t, "noop", scanner.Name())
	assert.False(t, scanner.Scan(context.Background(), "a.pdf", nil).Infected)
}

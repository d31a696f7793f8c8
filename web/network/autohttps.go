// Package network lets the panel answer plain HTTP on its TLS port with a
// redirect to HTTPS.
package network

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"net/http"
	"sync"
)

// tlsHandshake is the first byte of every TLS record carrying a handshake.
const tlsHandshake = 0x16

// AutoHttpsListener wraps the TCP listener underneath tls.NewListener.
type AutoHttpsListener struct {
	net.Listener
}

func NewAutoHttpsListener(listener net.Listener) net.Listener {
	return &AutoHttpsListener{Listener: listener}
}

func (l *AutoHttpsListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &autoHttpsConn{Conn: conn}, nil
}

// autoHttpsConn peeks at the first read. A TLS client hello passes through
// untouched; a plain HTTP request is answered with a redirect and the
// connection is closed.
type autoHttpsConn struct {
	net.Conn

	once    sync.Once
	pending []byte
	err     error
}

func (c *autoHttpsConn) sniff() {
	buf := make([]byte, 4096)
	n, err := c.Conn.Read(buf)
	c.pending = buf[:n]
	if n == 0 || buf[0] == tlsHandshake {
		c.err = err
		return
	}
	req, perr := http.ReadRequest(bufio.NewReader(bytes.NewReader(c.pending)))
	if perr != nil {
		c.err = err
		return
	}
	resp := http.Response{
		StatusCode: http.StatusTemporaryRedirect,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
	}
	resp.Header.Set("Location", fmt.Sprintf("https://%s%s", req.Host, req.RequestURI))
	resp.Header.Set("Connection", "close")
	_ = resp.Write(c.Conn)
	_ = c.Conn.Close()
	c.pending = nil
	c.err = net.ErrClosed
}

func (c *autoHttpsConn) Read(buf []byte) (int, error) {
	c.once.Do(c.sniff)
	if len(c.pending) > 0 {
		n := copy(buf, c.pending)
		c.pending = c.pending[n:]
		return n, nil
	}
	if c.err != nil {
		return 0, c.err
	}
	return c.Conn.Read(buf)
}

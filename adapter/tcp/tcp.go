// Package tcp supplies pool lifecycle callbacks for raw TCP backends.
package tcp

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"time"

	"github.com/jasonkayzk/respool/pool"
)

const (
	defaultDialTimeout = 10 * time.Second

	// A read that stays silent this long means the peer is still there
	probeTimeout = time.Millisecond
)

// Config for the tcp adapter
type Config struct {
	Address     string
	DialTimeout time.Duration

	// TLSConfig switches the dialer to TLS when set
	TLSConfig *tls.Config
}

// Options fills the lifecycle callbacks of base with a TCP dialer:
// create dials (and handshakes when TLS is configured), destroy closes,
// validate runs Probe. base may be nil.
func Options(cfg Config, base *pool.Options[net.Conn]) *pool.Options[net.Conn] {
	if base == nil {
		base = &pool.Options[net.Conn]{}
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	base.Factory = func(ctx context.Context) (net.Conn, error) {
		d := net.Dialer{Timeout: dialTimeout}
		conn, err := d.DialContext(ctx, "tcp", cfg.Address)
		if err != nil {
			return nil, err
		}
		if cfg.TLSConfig == nil {
			return conn, nil
		}
		tc := tls.Client(conn, cfg.TLSConfig)
		if err := tc.HandshakeContext(ctx); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return tc, nil
	}
	base.Close = func(conn net.Conn) error {
		return conn.Close()
	}
	base.Ping = Probe
	return base
}

// errDirtyConn marks a connection with unexpected pending data.
var errDirtyConn = errors.New("tcp: unread data on idle connection")

// Probe reports whether conn still looks alive by attempting a read
// under a very short deadline. A deadline timeout means no pending data
// and a live peer. A successful read means the peer sent data nobody
// asked for; the byte is already consumed, so the conn is reported
// unhealthy rather than handed back with a torn protocol stream. EOF or
// any other error means the link is gone.
func Probe(conn net.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(probeTimeout)); err != nil {
		return err
	}
	var buf [1]byte
	_, err := conn.Read(buf[:])
	_ = conn.SetReadDeadline(time.Time{})

	if err == nil {
		return errDirtyConn
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return nil
	}
	return err
}

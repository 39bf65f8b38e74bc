package harness

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/binary"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"time"

	"github.com/quic-go/quic-go"

	"github.com/0xricksanchez/hantu-go/internal/ferrors"
)

// QUICHandler processes one delivered test case's body and reports the
// verdict to send back to the driver.
type QUICHandler func(body []byte) Verdict

// QUICListener is a reference target-side counterpart to QUICDriver, used to
// exercise the wire protocol in tests and as a template for wiring a real
// network-attached target into the fuzzer.
type QUICListener struct {
	ln *quic.Listener
}

// ListenQUIC starts accepting QUIC connections on addr, dispatching every
// delivered test case on every stream of every connection to handler.
func ListenQUIC(addr string, tlsConf *tls.Config, handler QUICHandler) (*QUICListener, error) {
	ln, err := quic.ListenAddr(addr, tlsConf, &quic.Config{})
	if err != nil {
		return nil, ferrors.Wrap(ferrors.KindIO, err)
	}
	l := &QUICListener{ln: ln}
	go l.acceptLoop(handler)
	return l, nil
}

func (l *QUICListener) acceptLoop(handler QUICHandler) {
	for {
		conn, err := l.ln.Accept(context.Background())
		if err != nil {
			return
		}
		go l.serveConn(conn, handler)
	}
}

func (l *QUICListener) serveConn(conn *quic.Conn, handler QUICHandler) {
	for {
		stream, err := conn.AcceptStream(context.Background())
		if err != nil {
			return
		}
		go l.serveStream(stream, handler)
	}
}

func (l *QUICListener) serveStream(stream *quic.Stream, handler QUICHandler) {
	defer stream.Close()

	var lenPrefix [4]byte
	if _, err := io.ReadFull(stream, lenPrefix[:]); err != nil {
		return
	}
	header := make([]byte, binary.BigEndian.Uint32(lenPrefix[:]))
	if _, err := io.ReadFull(stream, header); err != nil {
		return
	}
	body, err := io.ReadAll(stream)
	if err != nil {
		return
	}

	v := handler(body)
	resp := make([]byte, 5)
	if v.Crashed {
		resp[0] = 1
	}
	binary.BigEndian.PutUint32(resp[1:], uint32(v.ExitCode))
	_, _ = stream.Write(resp)
}

func (l *QUICListener) Addr() net.Addr { return l.ln.Addr() }
func (l *QUICListener) Close() error   { return l.ln.Close() }

// GenerateSelfSignedTLS builds an in-memory self-signed TLS config for the
// given hosts, for use by tests and by operators wiring up a local listener
// without a real certificate.
func GenerateSelfSignedTLS(hosts []string, validFor time.Duration) (*tls.Config, error) {
	if validFor <= 0 {
		validFor = time.Hour
	}
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.KindIO, err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(validFor),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			tmpl.IPAddresses = append(tmpl.IPAddresses, ip)
		} else {
			tmpl.DNSNames = append(tmpl.DNSNames, h)
		}
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.KindIO, err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.KindIO, err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{pair},
		MinVersion:   tls.VersionTLS13,
		NextProtos:   []string{"hantu-fuzz"},
	}, nil
}

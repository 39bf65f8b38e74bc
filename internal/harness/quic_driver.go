package harness

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/quic-go/qpack"
	"github.com/quic-go/quic-go"

	"github.com/0xricksanchez/hantu-go/internal/ferrors"
	"github.com/0xricksanchez/hantu-go/internal/testcase"
)

// QUICDriver delivers test cases over a long-lived QUIC connection instead
// of spawning a process per iteration, for targets that are network services
// rather than short-lived command-line programs (§5.4's network-attached
// driver). Each Deliver call opens a fresh bidirectional stream carrying a
// qpack-encoded header block — so a target that already speaks an
// HTTP/3-style framing can dispatch on familiar pseudo-headers — followed by
// the raw test case bytes, and reads back a fixed 5-byte verdict frame: one
// crash-flag byte and a big-endian uint32 exit code.
type QUICDriver struct {
	conn   *quic.Conn
	enc    *qpack.Encoder
	encBuf *bytes.Buffer
}

// DialQUIC opens the connection reused across every subsequent Deliver call.
// A nil tlsConf dials with certificate verification disabled under the
// "hantu-fuzz" ALPN, the expected setup for talking to a purpose-built fuzz
// target rather than a public service.
func DialQUIC(ctx context.Context, addr string, tlsConf *tls.Config) (*QUICDriver, error) {
	if tlsConf == nil {
		tlsConf = &tls.Config{InsecureSkipVerify: true, NextProtos: []string{"hantu-fuzz"}}
	}
	conn, err := quic.DialAddr(ctx, addr, tlsConf, &quic.Config{})
	if err != nil {
		return nil, ferrors.Wrap(ferrors.KindSpawningTarget, err)
	}
	buf := &bytes.Buffer{}
	return &QUICDriver{conn: conn, enc: qpack.NewEncoder(buf), encBuf: buf}, nil
}

func (d *QUICDriver) Deliver(ctx context.Context, tc *testcase.TestCase) (Verdict, error) {
	stream, err := d.conn.OpenStreamSync(ctx)
	if err != nil {
		return Verdict{}, ferrors.Wrap(ferrors.KindSpawningTarget, err)
	}

	d.encBuf.Reset()
	if err := d.enc.WriteField(qpack.HeaderField{Name: ":method", Value: "DELIVER"}); err != nil {
		return Verdict{}, ferrors.Wrap(ferrors.KindWritingTestcase, err)
	}
	if err := d.enc.WriteField(qpack.HeaderField{Name: "content-length", Value: fmt.Sprintf("%d", len(tc.Data))}); err != nil {
		return Verdict{}, ferrors.Wrap(ferrors.KindWritingTestcase, err)
	}
	header := append([]byte(nil), d.encBuf.Bytes()...)

	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(header)))
	if _, err := stream.Write(lenPrefix[:]); err != nil {
		return Verdict{}, ferrors.Wrap(ferrors.KindWritingTestcase, err)
	}
	if _, err := stream.Write(header); err != nil {
		return Verdict{}, ferrors.Wrap(ferrors.KindWritingTestcase, err)
	}
	if _, err := stream.Write(tc.Data); err != nil {
		return Verdict{}, ferrors.Wrap(ferrors.KindWritingTestcase, err)
	}
	// Half-close the write side so the target's io.ReadAll of the body
	// observes EOF; the read side stays open for the verdict frame below.
	if err := stream.Close(); err != nil {
		return Verdict{}, ferrors.Wrap(ferrors.KindWritingTestcase, err)
	}

	resp := make([]byte, 5)
	if _, err := io.ReadFull(stream, resp); err != nil {
		return Verdict{}, ferrors.Wrap(ferrors.KindWaitingForTarget, err)
	}
	return Verdict{
		ExitCode:    int(binary.BigEndian.Uint32(resp[1:])),
		HasExitCode: true,
		Crashed:     resp[0] == 1,
	}, nil
}

func (d *QUICDriver) Close() error {
	return d.conn.CloseWithError(0, "")
}

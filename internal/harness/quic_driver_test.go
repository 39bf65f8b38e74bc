package harness

import (
	"context"
	"crypto/tls"
	"testing"
	"time"

	"github.com/0xricksanchez/hantu-go/internal/testcase"
)

func TestQUICDriverRoundTrip(t *testing.T) {
	serverTLS, err := GenerateSelfSignedTLS([]string{"127.0.0.1"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateSelfSignedTLS: %v", err)
	}

	var gotBody []byte
	handler := func(body []byte) Verdict {
		gotBody = append([]byte(nil), body...)
		if len(body) > 0 && body[0] == 0xFF {
			return Verdict{ExitCode: 11, HasExitCode: true, Crashed: true}
		}
		return Verdict{ExitCode: 0, HasExitCode: true}
	}

	ln, err := ListenQUIC("127.0.0.1:0", serverTLS, handler)
	if err != nil {
		t.Fatalf("ListenQUIC: %v", err)
	}
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientTLS := &tls.Config{InsecureSkipVerify: true, NextProtos: []string{"hantu-fuzz"}}
	d, err := DialQUIC(ctx, ln.Addr().String(), clientTLS)
	if err != nil {
		t.Fatalf("DialQUIC: %v", err)
	}
	defer d.Close()

	v, err := d.Deliver(ctx, testcase.New([]byte{0xFF, 0x01, 0x02}))
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if !v.Crashed || v.ExitCode != 11 {
		t.Fatalf("Deliver verdict = %+v, want a crash at exit code 11", v)
	}
	if len(gotBody) != 3 || gotBody[0] != 0xFF {
		t.Fatalf("server observed body %v, want the delivered test case bytes", gotBody)
	}

	v2, err := d.Deliver(ctx, testcase.New([]byte{0x01}))
	if err != nil {
		t.Fatalf("Deliver (clean): %v", err)
	}
	if v2.Crashed {
		t.Fatalf("Deliver (clean) verdict = %+v, want no crash", v2)
	}
}

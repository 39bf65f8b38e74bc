package harness

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/0xricksanchez/hantu-go/internal/testcase"
)

func TestMockDriverSatisfiesInterface(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := NewMockDriver(ctrl)
	var _ Driver = m

	want := Verdict{ExitCode: 11, HasExitCode: true, Crashed: true}
	m.EXPECT().Deliver(gomock.Any(), gomock.Any()).Return(want, nil)
	m.EXPECT().Close().Return(nil)

	got, err := m.Deliver(context.Background(), testcase.New([]byte("x")))
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if got != want {
		t.Fatalf("Deliver() = %+v, want %+v", got, want)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

package pdo

import (
	"log/slog"
	"testing"

	canopen "github.com/lely-core/canopen-go"
	"github.com/lely-core/canopen-go/pkg/emergency"
	"github.com/lely-core/canopen-go/pkg/od"
	"github.com/lely-core/canopen-go/pkg/sync"
	"github.com/stretchr/testify/assert"
)

// discardBus is a no-op Bus used to exercise TPDO transmission paths without
// a real transport.
type discardBus struct{}

func (discardBus) Send(frame canopen.Frame) error { return nil }

func newTestTPDO(t testing.TB) *TPDO {
	t.Helper()

	bm := canopen.NewBusManager(discardBus{})
	dict := od.NewOD()
	dict.AddSYNC()
	if err := dict.AddTPDO(1); err != nil {
		t.Fatal(err)
	}

	emcy := &emergency.EMCY{}
	s, err := sync.NewSYNC(bm, emcy, dict.Index(0x1005), dict.Index(0x1006), dict.Index(0x1007), dict.Index(0x1019))
	if err != nil {
		t.Fatal(err)
	}

	tpdo, err := NewTPDO(bm, slog.Default(), dict, emcy, s, dict.Index(0x1800), dict.Index(0x1A00), 0x180)
	if err != nil {
		t.Fatal(err)
	}
	return tpdo
}

func BenchmarkTPDOSend(b *testing.B) {
	b.StopTimer()
	tpdo := newTestTPDO(b)
	b.StartTimer()
	for n := 0; n < b.N; n++ {
		if err := tpdo.send(); err != nil {
			b.Fatal(err)
		}
	}
}

func TestNewTPDO(t *testing.T) {
	tpdo := newTestTPDO(t)
	assert.NotNil(t, tpdo)
}

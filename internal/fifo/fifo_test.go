package fifo

import (
	"testing"

	"github.com/lely-core/canopen-go/internal/crc"
)

func TestFifoWriteCRC(t *testing.T) {
	f := NewFifo(100)
	data := []byte{1, 2, 3, 4, 5}

	var running crc.CRC16
	f.Write(data, &running)

	var want crc.CRC16
	want.Block(data)
	if running != want {
		t.Errorf("crc accumulated during Write (%x) does not match direct Block crc (%x)", running, want)
	}
}

func TestFifoWrite(t *testing.T) {
	f := NewFifo(100)
	res := f.Write([]byte{1, 2, 3, 4, 5}, nil)
	if res != 5 {
		t.Errorf("Written only %v", res)
	}
	if f.writePos != 5 {
		t.Errorf("Write position is %v", f.writePos)
	}
	if f.readPos != 0 {
		t.Error()
	}
	res = f.Write(make([]byte, 500), nil)
	if res != 94 {
		t.Errorf("Wrote %v", res)
	}
	res = f.Write([]byte{1}, nil)
	if res != 0 {
		t.Error()
	}
	// Free up some space by reading then re writing
	var eof bool = false
	f.Read(make([]byte, 10), &eof)
	res = f.Write(make([]byte, 10), nil)
	if res != 10 {
		t.Error()
	}
}

func TestFifoRead(t *testing.T) {
	f := NewFifo(100)
	receiveBuffer := make([]byte, 10)
	var eof bool = false
	res := f.Read(receiveBuffer, &eof)
	if res != 0 {
		t.Error()
	}
	res = f.Write([]byte{1, 2, 3, 4}, nil)
	if res != 4 && f.writePos != 4 {
		t.Error()
	}
	res = f.Read(receiveBuffer, &eof)
	if res != 4 {
		t.Errorf("Res is %v", res)
	}
}

func TestFifoAltRead(t *testing.T) {
	f := NewFifo(100)
	receiveBuffer := make([]byte, 10)
	res := f.AltRead(receiveBuffer)
	if res != 0 {
		t.Error()
	}
	res = f.Write([]byte{1, 2, 3, 4}, nil)
	if res != 4 && f.writePos != 4 {
		t.Error()
	}
	var eof bool
	res = f.Read(receiveBuffer, &eof)
	if res != 4 {
		t.Errorf("Res is %v", res)
	}
}

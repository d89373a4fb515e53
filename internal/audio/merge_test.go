package audio

import (
	"encoding/binary"
	"testing"
	"time"
)

func testFormat() Format {
	return Format{SampleRate: 16000, Channels: 1, Precision: 2}
}

func TestFormatMath(t *testing.T) {
	f := testFormat()

	// 300ms @16kHz 单声道 16bit = 4800 帧 = 9600 字节
	if got := f.SilenceBytes(300 * time.Millisecond); got != 9600 {
		t.Fatalf("SilenceBytes(300ms) = %d, want 9600", got)
	}
	if got := f.DurationMS(9600); got != 300 {
		t.Fatalf("DurationMS(9600) = %d, want 300", got)
	}
	if got := f.DurationMS(32000); got != 1000 {
		t.Fatalf("DurationMS(32000) = %d, want 1000", got)
	}
}

func TestMergeBufferDuration(t *testing.T) {
	f := testFormat()
	m := NewMergeBuffer(f)

	m.Append(make([]byte, f.SilenceBytes(500*time.Millisecond)))
	m.AppendSilence(300 * time.Millisecond)
	m.Append(make([]byte, f.SilenceBytes(700*time.Millisecond)))

	if got := m.DurationMS(); got != 1500 {
		t.Fatalf("merged duration = %dms, want 1500", got)
	}
}

func TestPCMStreamer(t *testing.T) {
	f := testFormat()

	// 四个采样：0, 最大正值, 最小负值, 0
	data := make([]byte, 8)
	binary.LittleEndian.PutUint16(data[2:], 0x7FFF)
	binary.LittleEndian.PutUint16(data[4:], 0x8000)

	s := NewPCMStreamer(data, f)
	if s.Len() != 4 {
		t.Fatalf("Len = %d, want 4", s.Len())
	}

	samples := make([][2]float64, 4)
	n, ok := s.Stream(samples)
	if n != 4 || !ok {
		t.Fatalf("Stream = (%d, %v), want (4, true)", n, ok)
	}

	if samples[0][0] != 0 {
		t.Fatalf("sample 0 = %v, want 0", samples[0][0])
	}
	if samples[1][0] <= 0.99 {
		t.Fatalf("sample 1 = %v, want near 1.0", samples[1][0])
	}
	if samples[2][0] != -1.0 {
		t.Fatalf("sample 2 = %v, want -1.0", samples[2][0])
	}
	// 单声道复制到左右两路
	if samples[1][0] != samples[1][1] {
		t.Fatalf("mono not duplicated to both channels: %v", samples[1])
	}

	// 读尽后结束
	if n, ok := s.Stream(samples); n != 0 || ok {
		t.Fatalf("drained streamer = (%d, %v), want (0, false)", n, ok)
	}
}

package audio

import (
	"encoding/binary"

	"github.com/gopxl/beep"
)

// PCMStreamer 把 s16le 字节流适配成 beep.Streamer，读完即结束。
// wav 编码器通过它把合并缓冲区落盘。
type PCMStreamer struct {
	format Format
	data   []byte
	pos    int
	err    error
}

func NewPCMStreamer(data []byte, format Format) *PCMStreamer {
	return &PCMStreamer{format: format, data: data}
}

func (s *PCMStreamer) Stream(samples [][2]float64) (int, bool) {
	bytesPerFrame := s.format.BytesPerFrame()
	remain := (len(s.data) - s.pos) / bytesPerFrame
	if remain == 0 {
		return 0, false
	}

	n := min(len(samples), remain)
	for i := 0; i < n; i++ {
		offset := s.pos + i*bytesPerFrame
		if s.format.Channels == 1 {
			v := pcm16ToFloat(s.data[offset:])
			samples[i][0] = v
			samples[i][1] = v
		} else {
			samples[i][0] = pcm16ToFloat(s.data[offset:])
			samples[i][1] = pcm16ToFloat(s.data[offset+s.format.Precision:])
		}
	}
	s.pos += n * bytesPerFrame

	return n, true
}

func (s *PCMStreamer) Err() error {
	return s.err
}

// Len 返回总帧数，供 beep 判断流长度
func (s *PCMStreamer) Len() int {
	return s.format.FrameCount(len(s.data))
}

func pcm16ToFloat(b []byte) float64 {
	if len(b) < 2 {
		return 0
	}
	v := int16(binary.LittleEndian.Uint16(b))
	return float64(v) / 32768.0
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

var _ beep.Streamer = (*PCMStreamer)(nil)

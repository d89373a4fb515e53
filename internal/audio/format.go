package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Format 描述原始 PCM 流的参数，Precision 为每声道每采样的字节数（s16le 为 2）
type Format struct {
	SampleRate beep.SampleRate
	Channels   int
	Precision  int
}

// DefaultFormat 是 OpenAI 兼容语音接口 pcm 返回的默认格式：24kHz 单声道 16bit
func DefaultFormat() Format {
	return Format{SampleRate: 24000, Channels: 1, Precision: 2}
}

func (f Format) BytesPerFrame() int {
	return f.Channels * f.Precision
}

// FrameCount 返回字节数对应的采样帧数，尾部不完整的帧忽略
func (f Format) FrameCount(byteLen int) int {
	return byteLen / f.BytesPerFrame()
}

// DurationMS 返回字节数对应的整毫秒时长
func (f Format) DurationMS(byteLen int) int64 {
	return int64(f.FrameCount(byteLen)) * 1000 / int64(f.SampleRate)
}

// SilenceBytes 返回指定时长静音所需的字节数，采样数用 beep 的精确换算
func (f Format) SilenceBytes(d time.Duration) int {
	return f.SampleRate.N(d) * f.BytesPerFrame()
}

// Beep 转换为 beep.Format，供 wav 编码使用
func (f Format) Beep() beep.Format {
	return beep.Format{
		SampleRate:  f.SampleRate,
		NumChannels: f.Channels,
		Precision:   f.Precision,
	}
}

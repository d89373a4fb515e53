package audio

import (
	"bytes"
	"time"
)

// MergeBuffer 按顺序拼接整段叙述的 PCM 数据：句子音频与定长静音交替写入。
// 单写者，不需要加锁；时长完全由写入的字节数决定。
type MergeBuffer struct {
	format Format
	buf    bytes.Buffer
}

func NewMergeBuffer(format Format) *MergeBuffer {
	return &MergeBuffer{format: format}
}

func (m *MergeBuffer) Format() Format {
	return m.format
}

// Append 追加一段句子音频
func (m *MergeBuffer) Append(pcm []byte) {
	m.buf.Write(pcm)
}

// AppendSilence 追加精确时长的静音（全零采样）
func (m *MergeBuffer) AppendSilence(d time.Duration) {
	n := m.format.SilenceBytes(d)
	m.buf.Write(make([]byte, n))
}

// Len 返回累计字节数
func (m *MergeBuffer) Len() int {
	return m.buf.Len()
}

// DurationMS 返回累计时长（整毫秒）
func (m *MergeBuffer) DurationMS() int64 {
	return m.format.DurationMS(m.buf.Len())
}

// Streamer 返回覆盖当前全部数据的只读 PCM 流，供 wav 编码消费
func (m *MergeBuffer) Streamer() *PCMStreamer {
	return NewPCMStreamer(m.buf.Bytes(), m.format)
}

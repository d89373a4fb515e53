package tts

import (
	"context"
	"fmt"

	"mdcast/internal/audio"
)

// Engine 是语音合成后端的统一接口：文本进，整句 PCM 出。
// 时间轴构建严格串行调用 Synthesize，单句失败必须以 *SynthesisError 返回，
// 由调用方决定跳过，不允许让一句坏文本中断整篇文档。
type Engine interface {
	Initialize(ctx context.Context) error
	Synthesize(ctx context.Context, text string) (*Clip, error)
	Format() audio.Format
	Close() error
}

// Clip 是一句话的合成结果
type Clip struct {
	PCM    []byte
	Format audio.Format
}

// DurationMS 返回整毫秒时长，由采样数换算，不依赖后端上报
func (c *Clip) DurationMS() int64 {
	return c.Format.DurationMS(len(c.PCM))
}

// SynthesisError 表示单句合成失败，属于可恢复错误
type SynthesisError struct {
	Text string
	Err  error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("tts: synthesize %q: %v", e.Text, e.Err)
}

func (e *SynthesisError) Unwrap() error {
	return e.Err
}

package tts

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/sirupsen/logrus"

	"mdcast/internal/audio"
)

// OpenAIEngineOption 配置 OpenAI 兼容语音接口（SiliconFlow、OpenAI 等）
type OpenAIEngineOption struct {
	BaseURL    string
	APIKey     string
	Model      string
	Voice      string
	SampleRate int
}

// OpenAIEngine 走 /v1/audio/speech 的一次性合成引擎。
// 请求 pcm 返回格式，时长在本地按采样数计算，保证时钟是整毫秒且可复算。
type OpenAIEngine struct {
	client openai.Client
	opt    OpenAIEngineOption
	format audio.Format
	log    *logrus.Entry
}

func NewOpenAIEngine(opt OpenAIEngineOption, log *logrus.Entry) (*OpenAIEngine, error) {
	if opt.APIKey == "" {
		return nil, errors.New("tts: openai engine requires an api key")
	}
	if opt.Model == "" || opt.Voice == "" {
		return nil, errors.New("tts: openai engine requires model and voice")
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	format := audio.DefaultFormat()
	if opt.SampleRate > 0 {
		format.SampleRate = beep.SampleRate(opt.SampleRate)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(opt.APIKey)}
	if opt.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opt.BaseURL))
	}

	return &OpenAIEngine{
		client: openai.NewClient(reqOpts...),
		opt:    opt,
		format: format,
		log:    log,
	}, nil
}

func (e *OpenAIEngine) Initialize(ctx context.Context) error {
	// HTTP 引擎无连接状态
	return nil
}

func (e *OpenAIEngine) Format() audio.Format {
	return e.format
}

func (e *OpenAIEngine) Synthesize(ctx context.Context, text string) (*Clip, error) {
	resp, err := e.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(e.opt.Model),
		Voice:          openai.AudioSpeechNewParamsVoice(e.opt.Voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	})
	if err != nil {
		return nil, &SynthesisError{Text: text, Err: err}
	}
	defer resp.Body.Close()

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SynthesisError{Text: text, Err: fmt.Errorf("read audio body: %w", err)}
	}
	if len(pcm) == 0 {
		return nil, &SynthesisError{Text: text, Err: errors.New("empty audio response")}
	}

	clip := &Clip{PCM: pcm, Format: e.format}
	e.log.Debugf("openai tts: %d bytes, %dms", len(pcm), clip.DurationMS())
	return clip, nil
}

func (e *OpenAIEngine) Close() error {
	return nil
}

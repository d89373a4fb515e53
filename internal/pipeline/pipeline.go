// Package pipeline 按原始流程把各阶段串起来：
// 切分 → 时间轴构建 → 三件产物落盘 → 幻灯片 → 视频。
// 后两个阶段消费前面的产物，单阶段失败只影响自身。
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"mdcast/internal/artifact"
	"mdcast/internal/config"
	"mdcast/internal/segment"
	"mdcast/internal/session"
	"mdcast/internal/slides"
	"mdcast/internal/timeline"
	"mdcast/internal/tts"
	"mdcast/internal/video"
)

type Options struct {
	Slides bool
	Video  bool
}

// Summary 是一次运行的最终汇报：不做静默截断，跳过多少句如实给出
type Summary struct {
	Report     timeline.Report
	Paths      artifact.Paths
	SlidePaths []string
	VideoPath  string
	TotalMS    int64
}

type Pipeline struct {
	cfg    *config.Config
	sess   *session.Session
	engine tts.Engine
}

func New(ctx context.Context, cfg *config.Config, sess *session.Session) (*Pipeline, error) {
	engine, err := newEngine(cfg, sess)
	if err != nil {
		return nil, err
	}
	if err := engine.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("pipeline: initialize tts engine: %w", err)
	}

	return &Pipeline{cfg: cfg, sess: sess, engine: engine}, nil
}

// newEngine 按配置组装 TTS 后端，注册音色名优先于手工参数
func newEngine(cfg *config.Config, sess *session.Session) (tts.Engine, error) {
	engineKind := cfg.TTSEngine

	var voice tts.VoiceProfile
	if cfg.TTSVoiceName != "" {
		v, ok := tts.GetVoice(cfg.TTSVoiceName)
		if !ok {
			return nil, fmt.Errorf("pipeline: voice %q not found, available: %v",
				cfg.TTSVoiceName, tts.ListVoices())
		}
		voice = v
		engineKind = v.Engine
	}

	switch engineKind {
	case "openai":
		opt := tts.OpenAIEngineOption{
			BaseURL:    cfg.TTSBaseURL,
			APIKey:     cfg.TTSAPIKey,
			Model:      cfg.TTSModel,
			Voice:      cfg.TTSVoice,
			SampleRate: cfg.TTSSampleRate,
		}
		if voice.Name != "" {
			opt.Model = voice.Model
			opt.Voice = voice.Voice
			opt.SampleRate = voice.SampleRate
		}
		return tts.NewOpenAIEngine(opt, sess.Log)

	case "volc":
		opt := tts.VolcEngineOption{
			AccessKey:  cfg.VolcAccessKey,
			AppKey:     cfg.VolcAppKey,
			ResourceID: cfg.VolcResourceID,
			VoiceType:  cfg.VolcVoiceType,
			SpeedRatio: float32(cfg.VolcSpeedRatio),
		}
		if voice.Name != "" {
			opt.VoiceType = voice.Voice
			opt.ResourceID = voice.ResourceID
			opt.SampleRate = voice.SampleRate
		}
		return tts.NewVolcEngine(opt, sess.Log)

	default:
		return nil, fmt.Errorf("pipeline: unknown tts engine %q", engineKind)
	}
}

// Run 对一篇 Markdown 文档执行整条流水线
func (p *Pipeline) Run(ctx context.Context, markdown string, opts Options) (*Summary, error) {
	doc, err := segment.NewPunctSplitter(p.sess.Log).Split(markdown)
	if err != nil {
		// 没有可用章节是致命错误，向上抛给调用方
		return nil, err
	}
	p.sess.Log.Infof("主标题: %s", doc.Title)

	builder := timeline.NewBuilder(p.engine, p.sess.Log, timeline.WithPauses(timeline.Pauses{
		Sentence: time.Duration(p.cfg.SentencePauseMS) * time.Millisecond,
		Section:  time.Duration(p.cfg.SectionPauseMS) * time.Millisecond,
	}))

	res, err := builder.Build(ctx, doc)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Report:  res.Report,
		Paths:   artifact.NewWriter(p.sess).WriteAll(res),
		TotalMS: res.TotalMS,
	}

	if opts.Slides {
		summary.SlidePaths = p.runSlides(ctx, doc)
	}
	if opts.Video {
		summary.VideoPath = p.runVideo(ctx, doc.Title, res.Spans, summary.Paths.Audio)
	}

	p.sess.Log.Infof("运行结束: %d 个章节, %d 句成功, %d 句跳过",
		res.Report.Sections, res.Report.Synthesized, res.Report.Skipped)

	return summary, nil
}

func (p *Pipeline) runSlides(ctx context.Context, doc *segment.Document) []string {
	if p.cfg.LLMAPIKey == "" {
		p.sess.Log.Warn("未配置 LLM API key，跳过幻灯片生成")
		return nil
	}

	gen, err := slides.NewGenerator(ctx, slides.Option{
		BaseURL: p.cfg.LLMBaseURL,
		APIKey:  p.cfg.LLMAPIKey,
		Model:   p.cfg.LLMModel,
	}, p.sess.Log)
	if err != nil {
		p.sess.Log.Errorf("幻灯片生成器初始化失败: %v", err)
		return nil
	}

	paths, err := gen.Generate(ctx, doc, p.sess.Path("slides"))
	if err != nil {
		p.sess.Log.Errorf("幻灯片生成失败: %v", err)
	}
	return paths
}

func (p *Pipeline) runVideo(ctx context.Context, title string, spans []timeline.SectionSpan, audioPath string) string {
	imagesDir := p.sess.Path("images")
	if _, err := os.Stat(imagesDir); err != nil {
		p.sess.Log.Warnf("图片目录不存在，跳过视频合成: %s", imagesDir)
		return ""
	}

	// 视频以文档主标题命名，标题里的非法字符替换掉
	base := artifact.SanitizeFilename(title)
	if base == "" {
		base = "video"
	}
	outPath := p.sess.Path(fmt.Sprintf("%s_%s.mp4", base, p.sess.ID))
	assembler := video.NewAssembler(p.cfg.FFmpegBin, p.sess.Log)
	if err := assembler.Assemble(ctx, spans, imagesDir, audioPath, outPath); err != nil {
		p.sess.Log.Errorf("视频合成失败: %v", err)
		return ""
	}
	return outPath
}

// Close 释放 TTS 后端连接
func (p *Pipeline) Close() error {
	return p.engine.Close()
}

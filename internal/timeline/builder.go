package timeline

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"mdcast/internal/audio"
	"mdcast/internal/segment"
	"mdcast/internal/tts"
)

// 停顿时长是固定约定，下游依赖这两个值推算时间轴；
// 如需调整只通过 WithPauses 这一个入口覆盖
const (
	SentencePause = 300 * time.Millisecond // 同章节句与句之间
	SectionPause  = time.Second            // 章节与章节之间
)

type Pauses struct {
	Sentence time.Duration
	Section  time.Duration
}

func DefaultPauses() Pauses {
	return Pauses{Sentence: SentencePause, Section: SectionPause}
}

// CaptionEntry 是与一条合成句对齐的字幕记录
type CaptionEntry struct {
	Seq     int
	StartMS int64
	EndMS   int64
	Text    string
}

// SectionSpan 是时间轴描述中的一条章节边界记录
type SectionSpan struct {
	Title   string
	StartMS int64
	EndMS   int64
}

// SentenceResult 是单句的带标签结果：Err 为 nil 表示合成成功，
// 否则这句被跳过，原因保留在 Err 里。跳过是预期内状态，不走异常路径。
type SentenceResult struct {
	Section    string
	Text       string
	DurationMS int64
	Err        error
}

func (r SentenceResult) Synthesized() bool {
	return r.Err == nil
}

// Report 汇总一次构建的逐句结果
type Report struct {
	Sections    int
	Synthesized int
	Skipped     int
	Results     []SentenceResult
}

// Result 是一次构建产出的三件套共享的内存形态
type Result struct {
	Captions []CaptionEntry
	Spans    []SectionSpan
	Audio    *audio.MergeBuffer
	Report   Report
	TotalMS  int64 // 最终时钟值，等于合并音频时长
}

// Builder 驱动逐句合成并维护共享时钟。
// 章节与句子严格按文档顺序串行处理：时钟和音频缓冲是共享累加器，
// 乱序合成会让字幕、音频、时间轴三者失去同步。
type Builder struct {
	engine tts.Engine
	pauses Pauses
	log    *logrus.Entry
}

type Option func(*Builder)

// WithPauses 覆盖默认停顿时长
func WithPauses(p Pauses) Option {
	return func(b *Builder) {
		if p.Sentence > 0 {
			b.pauses.Sentence = p.Sentence
		}
		if p.Section > 0 {
			b.pauses.Section = p.Section
		}
	}
}

func NewBuilder(engine tts.Engine, log *logrus.Entry, opts ...Option) *Builder {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	b := &Builder{engine: engine, pauses: DefaultPauses(), log: log}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build 对切分好的文档逐句合成，产出字幕、章节边界和合并音频。
// 单句失败记入 Report 后继续；时钟只增不减，跳过的句子不影响时钟。
func (b *Builder) Build(ctx context.Context, doc *segment.Document) (*Result, error) {
	res := &Result{Audio: audio.NewMergeBuffer(b.engine.Format())}
	res.Report.Sections = len(doc.Sections)

	var clock int64
	seq := 1

	for si := range doc.Sections {
		sec := &doc.Sections[si]
		last := si == len(doc.Sections)-1

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sec.StartMS = clock
		b.log.Infof("处理章节 %d/%d: %s", si+1, len(doc.Sections), sec.Title)

		for i := range sec.Sentences {
			sentence := &sec.Sentences[i]

			clip, err := b.engine.Synthesize(ctx, sentence.Text)
			if err != nil {
				// 单句失败不影响时钟、字幕和音频，跳过继续
				b.log.Warnf("句子合成失败，跳过: %v", err)
				res.Report.Skipped++
				res.Report.Results = append(res.Report.Results, SentenceResult{
					Section: sec.Title,
					Text:    sentence.Text,
					Err:     err,
				})
				continue
			}

			dur := clip.DurationMS()
			sentence.DurationMS = dur

			res.Audio.Append(clip.PCM)
			res.Captions = append(res.Captions, CaptionEntry{
				Seq:     seq,
				StartMS: clock,
				EndMS:   clock + dur,
				Text:    sentence.Text,
			})
			clock += dur
			seq++

			res.Report.Synthesized++
			res.Report.Results = append(res.Report.Results, SentenceResult{
				Section:    sec.Title,
				Text:       sentence.Text,
				DurationMS: dur,
			})

			// 不是本章节最后一句时补句间停顿，不产生字幕
			if i < len(sec.Sentences)-1 {
				res.Audio.AppendSilence(b.pauses.Sentence)
				clock += b.pauses.Sentence.Milliseconds()
			}
		}

		// 非最后章节补章节间停顿；章节结束时间包含这段过渡，
		// 最后一章没有过渡可含，这个不对称是时间轴格式的既定约定
		if !last {
			res.Audio.AppendSilence(b.pauses.Section)
			clock += b.pauses.Section.Milliseconds()
		}
		sec.EndMS = clock

		res.Spans = append(res.Spans, SectionSpan{
			Title:   sec.Title,
			StartMS: sec.StartMS,
			EndMS:   sec.EndMS,
		})
	}

	res.TotalMS = clock
	b.log.Infof("时间轴构建完成: %d 句成功, %d 句跳过, 总时长 %s",
		res.Report.Synthesized, res.Report.Skipped, FormatTimecode(clock))

	return res, nil
}

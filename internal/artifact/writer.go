// Package artifact 把时间轴构建的结果落盘为三件同步产物：
// 合并音频 wav、SRT 字幕、章节时间轴 JSON。三者共享运行标识，
// 各自独立尽力写出，单件失败不阻塞其余。
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/gopxl/beep/wav"
	"github.com/sirupsen/logrus"

	"mdcast/internal/session"
	"mdcast/internal/timeline"
)

// Paths 记录实际写出的产物路径，写失败的项为空串
type Paths struct {
	Audio    string
	Captions string
	Timeline string
}

type Writer struct {
	sess *session.Session
	log  *logrus.Entry
}

func NewWriter(sess *session.Session) *Writer {
	return &Writer{sess: sess, log: sess.Log}
}

// WriteAll 依次写出三件产物，失败的记日志并继续
func (w *Writer) WriteAll(res *timeline.Result) Paths {
	var paths Paths

	if p, err := w.WriteAudio(res); err != nil {
		w.log.Errorf("保存合并音频失败: %v", err)
	} else {
		paths.Audio = p
		w.log.Infof("已生成合并音频文件: %s", p)
	}

	if p, err := w.WriteCaptions(res.Captions); err != nil {
		w.log.Errorf("保存字幕文件失败: %v", err)
	} else {
		paths.Captions = p
		w.log.Infof("已生成字幕文件: %s", p)
	}

	if p, err := w.WriteTimeline(res.Spans); err != nil {
		w.log.Errorf("保存时间轴失败: %v", err)
	} else {
		paths.Timeline = p
		w.log.Infof("已生成时间轴文件: %s", p)
	}

	return paths
}

// WriteAudio 把合并缓冲区编码为 wav
func (w *Writer) WriteAudio(res *timeline.Result) (string, error) {
	path := w.sess.Path(fmt.Sprintf("audio_%s.wav", w.sess.ID))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("artifact: create %s: %w", path, err)
	}
	defer f.Close()

	if err := wav.Encode(f, res.Audio.Streamer(), res.Audio.Format().Beep()); err != nil {
		return "", fmt.Errorf("artifact: encode wav: %w", err)
	}
	return path, nil
}

// WriteCaptions 写 SRT：编号、start --> end、文本，条目间空行分隔
func (w *Writer) WriteCaptions(entries []timeline.CaptionEntry) (string, error) {
	path := w.sess.Path(fmt.Sprintf("subtitle_%s.srt", w.sess.ID))

	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, fmt.Sprintf("%d\n%s --> %s\n%s\n",
			e.Seq, timeline.FormatTimecode(e.StartMS), timeline.FormatTimecode(e.EndMS), e.Text))
	}

	if err := os.WriteFile(path, []byte(strings.Join(blocks, "\n")), 0o644); err != nil {
		return "", fmt.Errorf("artifact: write srt: %w", err)
	}
	return path, nil
}

// 时间轴 JSON 的线格式，start_seconds/end_seconds 沿用字段名但值是 HH:MM:SS,mmm 字符串
type timelineFile struct {
	Timeline []timelineEntry `json:"timeline"`
}

type timelineEntry struct {
	Title        string `json:"title"`
	StartSeconds string `json:"start_seconds"`
	EndSeconds   string `json:"end_seconds"`
}

// WriteTimeline 写章节时间轴描述，下游按条目数决定配图数量、
// 按 end-start 决定每张图的停留时长
func (w *Writer) WriteTimeline(spans []timeline.SectionSpan) (string, error) {
	path := w.sess.Path(fmt.Sprintf("timeline_%s.json", w.sess.ID))

	file := timelineFile{Timeline: make([]timelineEntry, 0, len(spans))}
	for _, s := range spans {
		file.Timeline = append(file.Timeline, timelineEntry{
			Title:        s.Title,
			StartSeconds: timeline.FormatTimecode(s.StartMS),
			EndSeconds:   timeline.FormatTimecode(s.EndMS),
		})
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return "", fmt.Errorf("artifact: marshal timeline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("artifact: write timeline: %w", err)
	}
	return path, nil
}

// ReadTimeline 读回时间轴描述，供视频合成阶段消费
func ReadTimeline(path string) ([]timeline.SectionSpan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: read timeline: %w", err)
	}

	var file timelineFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("artifact: parse timeline: %w", err)
	}

	spans := make([]timeline.SectionSpan, 0, len(file.Timeline))
	for _, e := range file.Timeline {
		start, err := timeline.ParseTimecode(e.StartSeconds)
		if err != nil {
			return nil, err
		}
		end, err := timeline.ParseTimecode(e.EndSeconds)
		if err != nil {
			return nil, err
		}
		spans = append(spans, timeline.SectionSpan{Title: e.Title, StartMS: start, EndMS: end})
	}
	return spans, nil
}

var unsafeFilenameRe = regexp.MustCompile(`["'\s\\/:*?<>|]`)

// SanitizeFilename 把标题中的非法字符替换为下划线，用于派生文件名
func SanitizeFilename(name string) string {
	return unsafeFilenameRe.ReplaceAllString(name, "_")
}

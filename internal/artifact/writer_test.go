package artifact

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/sirupsen/logrus"

	"mdcast/internal/audio"
	"mdcast/internal/session"
	"mdcast/internal/timeline"
)

func testSession(t *testing.T) *session.Session {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	sess, err := session.New(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("session.New failed: %v", err)
	}
	return sess
}

func testResult() *timeline.Result {
	format := audio.Format{SampleRate: beep.SampleRate(16000), Channels: 1, Precision: 2}
	merged := audio.NewMergeBuffer(format)
	merged.AppendSilence(1500 * time.Millisecond)

	return &timeline.Result{
		Captions: []timeline.CaptionEntry{
			{Seq: 1, StartMS: 0, EndMS: 500, Text: "第一句。"},
			{Seq: 2, StartMS: 800, EndMS: 1500, Text: "第二句。"},
		},
		Spans: []timeline.SectionSpan{
			{Title: "Intro", StartMS: 0, EndMS: 1500},
		},
		Audio:   merged,
		TotalMS: 1500,
	}
}

func TestWriteCaptionsFormat(t *testing.T) {
	w := NewWriter(testSession(t))

	path, err := w.WriteCaptions(testResult().Captions)
	if err != nil {
		t.Fatalf("WriteCaptions failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}

	want := "1\n00:00:00,000 --> 00:00:00,500\n第一句。\n" +
		"\n" +
		"2\n00:00:00,800 --> 00:00:01,500\n第二句。\n"
	if string(data) != want {
		t.Fatalf("srt content mismatch:\ngot:\n%q\nwant:\n%q", data, want)
	}
}

func TestWriteTimelineRoundTrip(t *testing.T) {
	w := NewWriter(testSession(t))

	spans := []timeline.SectionSpan{
		{Title: "一", StartMS: 0, EndMS: 2000},
		{Title: "二", StartMS: 2000, EndMS: 3000},
	}

	path, err := w.WriteTimeline(spans)
	if err != nil {
		t.Fatalf("WriteTimeline failed: %v", err)
	}

	// 下游按字符串时间码消费
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"start_seconds": "00:00:02,000"`) {
		t.Fatalf("timeline json missing formatted timecode:\n%s", data)
	}

	got, err := ReadTimeline(path)
	if err != nil {
		t.Fatalf("ReadTimeline failed: %v", err)
	}
	if len(got) != len(spans) {
		t.Fatalf("span count = %d, want %d", len(got), len(spans))
	}
	for i := range spans {
		if got[i] != spans[i] {
			t.Fatalf("span %d = %+v, want %+v", i, got[i], spans[i])
		}
	}
}

func TestWriteAudioProducesWav(t *testing.T) {
	w := NewWriter(testSession(t))

	path, err := w.WriteAudio(testResult())
	if err != nil {
		t.Fatalf("WriteAudio failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Fatalf("not a wav file, first bytes: %v", data[:8])
	}
	// 1.5s @16kHz 16bit 单声道 = 48000 字节数据 + 头
	if len(data) < 48000 {
		t.Fatalf("wav too short: %d bytes", len(data))
	}
}

func TestWriteAllBestEffort(t *testing.T) {
	sess := testSession(t)
	w := NewWriter(sess)

	paths := w.WriteAll(testResult())
	if paths.Audio == "" || paths.Captions == "" || paths.Timeline == "" {
		t.Fatalf("expected all artifacts written, got %+v", paths)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{`AI 行业/早报: "今日"`, "AI_行业_早报___今日_"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

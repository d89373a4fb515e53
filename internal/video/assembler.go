// Package video 用 ffmpeg concat demuxer 把章节配图和合并音频封装成视频。
// 每张图的停留时长来自时间轴描述的 end-start，与叙述音频天然对齐。
package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"mdcast/internal/timeline"
)

type Assembler struct {
	ffmpegBin string
	log       *logrus.Entry
}

func NewAssembler(ffmpegBin string, log *logrus.Entry) *Assembler {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Assembler{ffmpegBin: ffmpegBin, log: log}
}

// Assemble 期望 imagesDir 下有 section_1.png .. section_N.png 与时间轴条目对应。
// 缺图的章节记日志跳过；concat 清单是临时文件，任何退出路径都会删除。
func (a *Assembler) Assemble(ctx context.Context, spans []timeline.SectionSpan, imagesDir, audioPath, outPath string) error {
	if len(spans) == 0 {
		return fmt.Errorf("video: empty timeline")
	}

	listFile, err := a.writeConcatList(spans, imagesDir)
	if err != nil {
		return err
	}
	defer os.Remove(listFile)

	args := []string{"-y", "-f", "concat", "-safe", "0", "-i", listFile}
	if audioPath != "" {
		args = append(args, "-i", audioPath,
			"-c:v", "libx264", "-preset", "ultrafast", "-tune", "stillimage", "-crf", "28",
			"-c:a", "aac", "-b:a", "128k", "-shortest")
	} else {
		args = append(args,
			"-c:v", "libx264", "-preset", "ultrafast", "-tune", "stillimage", "-crf", "28")
	}
	args = append(args, "-vf", "format=yuv420p,scale=1920:-2", outPath)

	a.log.Infof("开始生成视频: %s", outPath)

	cmd := exec.CommandContext(ctx, a.ffmpegBin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("video: ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}

	a.log.Infof("视频生成成功: %s", outPath)
	return nil
}

// writeConcatList 生成 concat demuxer 清单，时长取章节 end-start；
// 末尾重复最后一张图，concat 语法要求最后一个 file 不带 duration
func (a *Assembler) writeConcatList(spans []timeline.SectionSpan, imagesDir string) (string, error) {
	f, err := os.CreateTemp("", "mdcast-concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("video: create concat list: %w", err)
	}

	var lastImage string
	written := 0
	for i, span := range spans {
		image, err := filepath.Abs(filepath.Join(imagesDir, fmt.Sprintf("section_%d.png", i+1)))
		if err != nil {
			continue
		}
		if _, err := os.Stat(image); err != nil {
			a.log.Warnf("找不到图片 %s，跳过该章节", image)
			continue
		}

		duration := float64(span.EndMS-span.StartMS) / 1000.0
		fmt.Fprintf(f, "file '%s'\nduration %.3f\n", image, duration)
		lastImage = image
		written++
	}

	if written == 0 {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("video: no images found in %s", imagesDir)
	}

	fmt.Fprintf(f, "file '%s'\n", lastImage)

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("video: close concat list: %w", err)
	}
	return f.Name(), nil
}

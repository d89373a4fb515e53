package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mdcast/internal/config"
	"mdcast/internal/pipeline"
	"mdcast/internal/session"
	"mdcast/internal/timeline"
	"mdcast/internal/tts"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "mdcast",
		Short:         "把 Markdown 文档转换为带字幕和时间轴的叙述视频",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(runCmd(), voicesCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var noSlides, noVideo bool

	cmd := &cobra.Command{
		Use:   "run <file.md>",
		Short: "对一篇 Markdown 文档执行整条流水线",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := logrus.New()
			logger.SetLevel(cfg.ParseLevel())

			sess, err := session.New(cfg.OutputRoot, logger)
			if err != nil {
				return err
			}
			sess.Log.Infof("开始处理 Markdown 文件: %s", args[0])

			markdown, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			p, err := pipeline.New(cmd.Context(), cfg, sess)
			if err != nil {
				return err
			}
			defer p.Close()

			summary, err := p.Run(cmd.Context(), string(markdown), pipeline.Options{
				Slides: !noSlides,
				Video:  !noVideo,
			})
			if err != nil {
				return err
			}

			printSummary(summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSlides, "no-slides", false, "跳过幻灯片生成")
	cmd.Flags().BoolVar(&noVideo, "no-video", false, "跳过视频合成")

	return cmd
}

func printSummary(s *pipeline.Summary) {
	fmt.Printf("共 %d 个章节，%d 句合成成功，%d 句跳过，总时长 %s\n",
		s.Report.Sections, s.Report.Synthesized, s.Report.Skipped,
		timeline.FormatTimecode(s.TotalMS))

	if s.Paths.Audio != "" {
		fmt.Printf("已生成合并音频文件: %s\n", s.Paths.Audio)
	}
	if s.Paths.Captions != "" {
		fmt.Printf("已生成字幕文件: %s\n", s.Paths.Captions)
	}
	if s.Paths.Timeline != "" {
		fmt.Printf("已生成时间轴文件: %s\n", s.Paths.Timeline)
	}
	if s.VideoPath != "" {
		fmt.Printf("已生成视频文件: %s\n", s.VideoPath)
	}

	for _, r := range s.Report.Results {
		if !r.Synthesized() {
			fmt.Printf("跳过的句子 [%s]: %s\n", r.Section, r.Text)
		}
	}
}

func voicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "列出可用音色",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range tts.ListVoices() {
				v, _ := tts.GetVoice(name)
				fmt.Printf("%-20s %-8s %s\n", name, v.Engine, v.Description)
			}
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "打印版本",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mdcast %s\n", version)
		},
	}
}

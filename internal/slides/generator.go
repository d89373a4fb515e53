// Package slides 为每个章节生成一页可截图的 HTML 幻灯片，
// 页面数量与时间轴条目一一对应，供下游渲染器截图后做视频合成。
package slides

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"

	"mdcast/internal/segment"
)

const systemPrompt = `你是一个网页设计师。把用户给出的章节内容排版成一张 1920x1080 的单页 HTML 幻灯片：
深色背景、大号无衬线中文字体、标题醒目、正文分点呈现。
只输出完整的 HTML 文档，不要输出任何解释或代码围栏。`

type Option struct {
	BaseURL string
	APIKey  string
	Model   string
}

type Generator struct {
	run compose.Runnable[[]*schema.Message, *schema.Message]
	log *logrus.Entry
}

func NewGenerator(ctx context.Context, opt Option, log *logrus.Entry) (*Generator, error) {
	if opt.APIKey == "" {
		return nil, fmt.Errorf("slides: llm api key required")
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: opt.BaseURL,
		Model:   opt.Model,
		APIKey:  opt.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("slides: create chat model: %w", err)
	}

	chain := compose.NewChain[[]*schema.Message, *schema.Message]()
	chain.AppendChatModel(chatModel, compose.WithNodeName("slide_model"))
	run, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("slides: compile chain: %w", err)
	}

	return &Generator{run: run, log: log}, nil
}

// Generate 为每个章节生成一页 HTML，外加一个索引页。
// 单页 LLM 失败回落到默认模板，不中断整次生成。
func (g *Generator) Generate(ctx context.Context, doc *segment.Document, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("slides: create dir: %w", err)
	}

	var paths []string
	for i, sec := range doc.Sections {
		g.log.Infof("正在为章节 %d/%d 生成幻灯片: %s", i+1, len(doc.Sections), sec.Title)

		content := g.render(ctx, sec)

		path := filepath.Join(dir, fmt.Sprintf("section_%d.html", i+1))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return paths, fmt.Errorf("slides: write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	if err := g.writeIndex(doc, dir, paths); err != nil {
		g.log.Warnf("索引页生成失败: %v", err)
	}

	return paths, nil
}

func (g *Generator) render(ctx context.Context, sec segment.Section) string {
	var body strings.Builder
	for _, s := range sec.Sentences {
		body.WriteString(s.Text)
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: fmt.Sprintf("标题：%s\n内容：%s", sec.Title, body.String())},
	}

	out, err := g.run.Invoke(ctx, messages)
	if err != nil {
		g.log.Errorf("生成幻灯片 HTML 失败，使用默认模板: %v", err)
		return defaultHTML(sec)
	}

	cleaned := stripFences(out.Content)
	if !strings.HasPrefix(cleaned, "<!DOCTYPE") && !strings.HasPrefix(cleaned, "<html") {
		g.log.Warnf("返回内容不是有效的 HTML，使用默认模板")
		return defaultHTML(sec)
	}
	return cleaned
}

// stripFences 去掉模型偶尔带上的代码围栏
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```html") {
		s = s[len("```html"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[3:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func defaultHTML(sec segment.Section) string {
	var body strings.Builder
	for _, s := range sec.Sentences {
		fmt.Fprintf(&body, "        <p>%s</p>\n", html.EscapeString(s.Text))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
    <meta charset="UTF-8">
    <title>%s</title>
    <style>
        body { font-family: 'Microsoft YaHei', sans-serif; background: #1e1e2e; color: #eee;
               width: 1920px; height: 1080px; margin: 0; padding: 80px; box-sizing: border-box; }
        h1 { font-size: 64px; border-bottom: 2px solid #555; padding-bottom: 24px; }
        p { font-size: 40px; line-height: 1.6; }
    </style>
</head>
<body>
    <h1>%s</h1>
%s</body>
</html>`, html.EscapeString(sec.Title), html.EscapeString(sec.Title), body.String())
}

func (g *Generator) writeIndex(doc *segment.Document, dir string, paths []string) error {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"zh-CN\">\n<head><meta charset=\"UTF-8\"><title>")
	b.WriteString(html.EscapeString(doc.Title))
	b.WriteString("</title></head>\n<body>\n<ul>\n")
	for i, p := range paths {
		title := doc.Sections[i].Title
		fmt.Fprintf(&b, "  <li><a href=\"%s\" target=\"_blank\">%s</a></li>\n",
			filepath.Base(p), html.EscapeString(title))
	}
	b.WriteString("</ul>\n</body>\n</html>")

	return os.WriteFile(filepath.Join(dir, "index.html"), []byte(b.String()), 0o644)
}

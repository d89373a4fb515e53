package segment

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"mdcast/internal/textnorm"
)

// ErrNoSections 表示文档中没有任何可用章节（缺少 "## " 标题），整次运行无法继续
var ErrNoSections = errors.New("segment: no sections found in document")

// Document 是切分后的整篇文档
type Document struct {
	Title    string // 第一个章节标题，作为文档主标题
	Sections []Section
}

// Section 是一个带标题的连续叙述单元，时间边界由时间轴构建阶段回填
type Section struct {
	Title     string
	Sentences []Sentence
	StartMS   int64
	EndMS     int64
}

// Sentence 是合成的最小单位，时长在合成成功后回填
type Sentence struct {
	Text       string
	Index      int // 在章节内的序号，从 1 开始
	DurationMS int64
}

// Splitter 把原始文档切分为有序的章节与句子。
// 切分规则是可替换的启发式策略，时间轴构建只依赖这个接口。
type Splitter interface {
	Split(raw string) (*Document, error)
}

// 句子终止标点集，标点保留在前一句末尾
const terminalPuncts = "。?!，"

// PunctSplitter 按 "## " 标题切章节、按终止标点切句子。
// 章节正文在切句前会先经过 textnorm.Normalize。
type PunctSplitter struct {
	log *logrus.Entry
}

func NewPunctSplitter(log *logrus.Entry) *PunctSplitter {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &PunctSplitter{log: log}
}

func (p *PunctSplitter) Split(raw string) (*Document, error) {
	doc := &Document{}

	for _, block := range splitHeadings(raw) {
		title, body := splitTitleLine(block)
		if doc.Title == "" {
			doc.Title = title
		}

		if strings.TrimSpace(body) == "" {
			p.log.Warnf("章节 '%s' 没有内容，跳过", title)
			continue
		}

		sentences := SplitSentences(textnorm.Normalize(body))
		if len(sentences) == 0 {
			p.log.Warnf("章节 '%s' 规整后没有句子，跳过", title)
			continue
		}

		sec := Section{Title: title}
		for i, text := range sentences {
			sec.Sentences = append(sec.Sentences, Sentence{Text: text, Index: i + 1})
		}
		doc.Sections = append(doc.Sections, sec)
	}

	if len(doc.Sections) == 0 {
		return nil, ErrNoSections
	}

	p.log.Infof("找到 %d 个章节", len(doc.Sections))
	return doc, nil
}

// splitHeadings 把文档按行首的 "## " 标题拆成块，每块首行是标题
func splitHeadings(raw string) []string {
	var blocks []string
	var cur []string
	inSection := false

	for _, line := range strings.Split(raw, "\n") {
		if strings.HasPrefix(line, "## ") {
			if inSection {
				blocks = append(blocks, strings.Join(cur, "\n"))
			}
			cur = []string{strings.TrimSpace(strings.TrimPrefix(line, "## "))}
			inSection = true
			continue
		}
		if inSection {
			cur = append(cur, line)
		}
		// 第一个标题之前的内容不属于任何章节，丢弃
	}
	if inSection {
		blocks = append(blocks, strings.Join(cur, "\n"))
	}
	return blocks
}

func splitTitleLine(block string) (title, body string) {
	if i := strings.Index(block, "\n"); i >= 0 {
		return block[:i], block[i+1:]
	}
	return block, ""
}

// SplitSentences 按终止标点切句，标点保留在句尾；
// 末尾缺少终止标点的残句会补一个中文句号；空白片段丢弃。
func SplitSentences(normalized string) []string {
	var sentences []string
	var cur strings.Builder

	flush := func(terminated bool) {
		s := strings.TrimSpace(cur.String())
		cur.Reset()
		if s == "" {
			return
		}
		if !terminated {
			s += "。"
		}
		sentences = append(sentences, s)
	}

	for _, r := range normalized {
		cur.WriteRune(r)
		if strings.ContainsRune(terminalPuncts, r) {
			flush(true)
		}
	}
	flush(false)

	return sentences
}

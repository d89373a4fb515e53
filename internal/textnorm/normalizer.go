package textnorm

import (
	"regexp"
	"strings"
)

// 预编译的 Markdown 清理规则
var (
	wikiImageRe = regexp.MustCompile(`!\[\[.*?\]\]`)       // Obsidian 图片 ![[xxx.png]]
	mdImageRe   = regexp.MustCompile(`!\[.*?\][ ]*\(.*?\)`) // 标准图片 ![alt](url)
	linkRe      = regexp.MustCompile(`\[(.*?)\][ ]*\(.*?\)`)
	periodRe    = regexp.MustCompile(`\.(\s|$)`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// Normalize 对任意输入做朗读前的文本规整，按固定顺序执行：
// 移除图片嵌入（Obsidian 与标准两种形式）、链接只保留文字、
// 连字符替换为空格、英文双引号转中文引号、句末英文句点转中文句号、
// 压缩空白。对任意输入都不会失败，且满足 Normalize(Normalize(s)) == Normalize(s)。
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	// 图片必须先于链接处理，否则 ![alt](url) 会被链接规则吃掉一半
	text = wikiImageRe.ReplaceAllString(text, "")
	text = mdImageRe.ReplaceAllString(text, "")

	// 链接 [文本](url) -> 文本
	text = linkRe.ReplaceAllString(text, "$1")

	// 连字符会让合成引擎逐字念出来，替换为空格
	text = strings.ReplaceAll(text, "-", " ")

	text = convertQuotes(text)

	// 句末的英文句点转为中文句号，与切分使用的标点集保持一致
	text = periodRe.ReplaceAllString(text, "。$1")

	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// convertQuotes 将英文直引号按开合交替转换为中文弯引号
func convertQuotes(text string) string {
	if !strings.Contains(text, `"`) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	open := true
	for _, r := range text {
		if r != '"' {
			b.WriteRune(r)
			continue
		}
		if open {
			b.WriteRune('“')
		} else {
			b.WriteRune('”')
		}
		open = !open
	}
	return b.String()
}

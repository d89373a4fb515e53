package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "link keeps label",
			in:   "详见 [官方公告] (https://example.com/a-b) 原文",
			want: "详见 官方公告 原文",
		},
		{
			name: "obsidian image removed",
			in:   "如下图 ![[截图 2024.png]] 所示",
			want: "如下图 所示",
		},
		{
			name: "standard image removed entirely",
			in:   "配图![模型架构](https://cdn.example.com/x.png)结束",
			want: "配图结束",
		},
		{
			name: "hyphen to space",
			in:   "GPT-4 与 Claude-3",
			want: "GPT 4 与 Claude 3",
		},
		{
			name: "straight quotes become curly pairs",
			in:   `他说"你好"然后离开`,
			want: "他说“你好”然后离开",
		},
		{
			name: "trailing english period becomes full stop",
			in:   "This is the end. 下一句",
			want: "This is the end。 下一句",
		},
		{
			name: "period at end of string",
			in:   "final sentence.",
			want: "final sentence。",
		},
		{
			name: "decimal point untouched",
			in:   "版本 3.5 发布，speed 1.2x",
			want: "版本 3.5 发布，speed 1.2x",
		},
		{
			name: "whitespace collapsed and trimmed",
			in:   "  多段\n\n文字\t混排  ",
			want: "多段 文字 混排",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"纯文本，无需改动。",
		`引用"原话"并附 [链接](https://a.b/c-d) 与图 ![x](u.png).`,
		"multi-word   english. sentence.",
		"![[wiki.png]] 前言 - 后记.",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: first=%q second=%q", in, once, twice)
		}
	}
}

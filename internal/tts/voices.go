package tts

import "sort"

// VoiceProfile 描述一个可选音色及其所属后端
type VoiceProfile struct {
	Name        string // 注册名，配置里引用
	Engine      string // "openai" 或 "volc"
	Model       string // openai 后端的模型名
	Voice       string // 后端侧的音色标识
	ResourceID  string // volc 后端的资源 ID
	Language    string
	Description string
	SampleRate  int
}

var voices = map[string]VoiceProfile{
	"cosyvoice-claire": {
		Name:        "cosyvoice-claire",
		Engine:      "openai",
		Model:       "FunAudioLLM/CosyVoice2-0.5B",
		Voice:       "FunAudioLLM/CosyVoice2-0.5B:claire",
		Language:    "zh",
		Description: "温柔女声，SiliconFlow CosyVoice",
		SampleRate:  24000,
	},
	"cosyvoice-alex": {
		Name:        "cosyvoice-alex",
		Engine:      "openai",
		Model:       "FunAudioLLM/CosyVoice2-0.5B",
		Voice:       "FunAudioLLM/CosyVoice2-0.5B:alex",
		Language:    "zh",
		Description: "沉稳男声，SiliconFlow CosyVoice",
		SampleRate:  24000,
	},
	"volc-meilin": {
		Name:        "volc-meilin",
		Engine:      "volc",
		Voice:       "zh_female_meilinvyou_saturn_bigtts",
		ResourceID:  "seed-tts-2.0",
		Language:    "zh",
		Description: "温柔女友音，火山引擎",
		SampleRate:  16000,
	},
	"volc-lengku": {
		Name:        "volc-lengku",
		Engine:      "volc",
		Voice:       "zh_male_lengkugege_emo_v2_mars_bigtts",
		ResourceID:  "seed-tts-1.0",
		Language:    "zh",
		Description: "冷酷哥哥音，火山引擎",
		SampleRate:  16000,
	},
}

// GetVoice 按注册名查音色
func GetVoice(name string) (VoiceProfile, bool) {
	v, ok := voices[name]
	return v, ok
}

// ListVoices 返回全部注册名，字典序
func ListVoices() []string {
	names := make([]string, 0, len(voices))
	for name := range voices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config 来自环境变量，.env 文件先于解析加载
type Config struct {
	LogLevel   string `env:"MDCAST_LOG_LEVEL" envDefault:"info"`
	OutputRoot string `env:"MDCAST_OUTPUT_DIR" envDefault:"output"`

	// TTS 后端："openai"（OpenAI 兼容 HTTP）或 "volc"（双向 websocket）
	TTSEngine string `env:"MDCAST_TTS_ENGINE" envDefault:"openai"`
	// 注册音色名（见 tts.ListVoices），留空则用下面的手工参数
	TTSVoiceName string `env:"MDCAST_TTS_VOICE_NAME"`

	TTSAPIKey     string `env:"SILICONFLOW_API_KEY"`
	TTSBaseURL    string `env:"MDCAST_TTS_BASE_URL" envDefault:"https://api.siliconflow.cn/v1"`
	TTSModel      string `env:"MDCAST_TTS_MODEL" envDefault:"FunAudioLLM/CosyVoice2-0.5B"`
	TTSVoice      string `env:"MDCAST_TTS_VOICE" envDefault:"FunAudioLLM/CosyVoice2-0.5B:claire"`
	TTSSampleRate int    `env:"MDCAST_TTS_SAMPLE_RATE" envDefault:"24000"`

	VolcAccessKey  string  `env:"MDCAST_VOLC_ACCESS_KEY"`
	VolcAppKey     string  `env:"MDCAST_VOLC_APP_KEY"`
	VolcResourceID string  `env:"MDCAST_VOLC_RESOURCE_ID" envDefault:"seed-tts-2.0"`
	VolcVoiceType  string  `env:"MDCAST_VOLC_VOICE_TYPE"`
	VolcSpeedRatio float64 `env:"MDCAST_VOLC_SPEED_RATIO" envDefault:"1.0"`

	// 幻灯片生成用的 LLM
	LLMBaseURL string `env:"MDCAST_LLM_BASE_URL"`
	LLMAPIKey  string `env:"MDCAST_LLM_API_KEY"`
	LLMModel   string `env:"MDCAST_LLM_MODEL" envDefault:"doubao-1-5-pro-32k-250115"`

	// 停顿覆盖，0 表示用内置默认值
	SentencePauseMS int `env:"MDCAST_SENTENCE_PAUSE_MS"`
	SectionPauseMS  int `env:"MDCAST_SECTION_PAUSE_MS"`

	FFmpegBin string `env:"MDCAST_FFMPEG_BIN" envDefault:"ffmpeg"`
}

// Load 读取 .env（存在时）并从环境解析配置
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env 缺失不是错误
		logrus.Debugf("config: no .env file loaded: %v", err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return &cfg, nil
}

// ParseLevel 把配置的日志级别转为 logrus 级别，非法值回落到 info
func (c *Config) ParseLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Package session 把一次运行的标识、输出目录和日志入口收拢到一个显式对象，
// 贯穿切分、构建与落盘，替代散落的全局状态。
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Session struct {
	ID        string // 形如 20250830-1a2b3c4d
	Date      string // 形如 20250830，用作输出子目录
	Dir       string
	Log       *logrus.Entry
	StartedAt time.Time
}

// New 创建运行会话并准备 output/<date> 目录
func New(outputRoot string, logger *logrus.Logger) (*Session, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	now := time.Now()
	date := now.Format("20060102")
	id := date + "-" + uuid.New().String()[:8]

	dir := filepath.Join(outputRoot, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: create output dir: %w", err)
	}

	return &Session{
		ID:        id,
		Date:      date,
		Dir:       dir,
		Log:       logger.WithField("run", id),
		StartedAt: now,
	}, nil
}

// Path 返回会话目录下的文件路径
func (s *Session) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

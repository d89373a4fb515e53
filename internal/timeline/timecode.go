package timeline

import (
	"fmt"
	"regexp"
	"strconv"
)

// FormatTimecode 把整毫秒格式化为 HH:MM:SS,mmm。
// 小时超过 24 不回绕，下游按字面值换算秒数。
func FormatTimecode(ms int64) string {
	return fmt.Sprintf("%02d:%02d:%02d,%03d",
		ms/3600000, ms/60000%60, ms/1000%60, ms%1000)
}

var timecodeRe = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2}),(\d{3})$`)

// ParseTimecode 是 FormatTimecode 的逆运算
func ParseTimecode(tc string) (int64, error) {
	m := timecodeRe.FindStringSubmatch(tc)
	if m == nil {
		return 0, fmt.Errorf("timeline: invalid timecode %q", tc)
	}

	// 小时位数不限，长到溢出 int64 也是非法时间码；分秒毫秒位宽固定不会溢出
	h, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("timeline: invalid timecode %q", tc)
	}
	mi, _ := strconv.ParseInt(m[2], 10, 64)
	s, _ := strconv.ParseInt(m[3], 10, 64)
	ms, _ := strconv.ParseInt(m[4], 10, 64)

	if mi > 59 || s > 59 {
		return 0, fmt.Errorf("timeline: invalid timecode %q", tc)
	}

	return h*3600000 + mi*60000 + s*1000 + ms, nil
}

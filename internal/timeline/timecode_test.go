package timeline

import "testing"

func TestFormatTimecode(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "00:00:00,000"},
		{500, "00:00:00,500"},
		{1500, "00:00:01,500"},
		{61001, "00:01:01,001"},
		{3600000, "01:00:00,000"},
		// 小时不回绕
		{90*3600000 + 123, "90:00:00,123"},
	}

	for _, tt := range tests {
		if got := FormatTimecode(tt.ms); got != tt.want {
			t.Fatalf("FormatTimecode(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

func TestParseTimecodeRoundTrip(t *testing.T) {
	for _, ms := range []int64{0, 1, 999, 1000, 59999, 3599999, 3600000, 90 * 3600000} {
		got, err := ParseTimecode(FormatTimecode(ms))
		if err != nil {
			t.Fatalf("ParseTimecode failed for %d: %v", ms, err)
		}
		if got != ms {
			t.Fatalf("round trip %d -> %d", ms, got)
		}
	}
}

func TestParseTimecodeInvalid(t *testing.T) {
	for _, tc := range []string{
		"", "1:2:3", "00:00:00.000", "00:61:00,000", "abc",
		// 小时位溢出 int64
		"99999999999999999999:00:00,000",
	} {
		if _, err := ParseTimecode(tc); err == nil {
			t.Fatalf("expected error for %q", tc)
		}
	}
}

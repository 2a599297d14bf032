package pipeline

import (
	"sort"
	"strconv"
	"strings"

	"companymap/internal/model"
)

// StreamColorNone 未指定 Stream 时的颜色
const StreamColorNone = "#e5e7eb"

var streamPalette = [...]string{
	"#f87171",
	"#fbbf24",
	"#34d399",
	"#60a5fa",
	"#a78bfa",
	"#f472b6",
	"#38bdf8",
	"#facc15",
	"#4ade80",
	"#818cf8",
}

// ParseStream 取前导整数（允许前导空白与正负号），"12a" -> 12
func ParseStream(stream string) (int, bool) {
	s := strings.TrimLeft(stream, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortByStream 按 Stream 数值升序稳定排序，非数值/缺失排在最后；返回副本
func SortByStream(companies []model.CompanyEntry) []model.CompanyEntry {
	out := make([]model.CompanyEntry, len(companies))
	copy(out, companies)

	sort.SliceStable(out, func(i, j int) bool {
		a, aok := ParseStream(out[i].Stream)
		b, bok := ParseStream(out[j].Stream)
		switch {
		case aok && bok:
			return a < b
		case aok:
			return true
		default:
			return false
		}
	})
	return out
}

// StreamColor Stream 对应的边框颜色
func StreamColor(stream string) string {
	n, ok := ParseStream(stream)
	if !ok {
		return StreamColorNone
	}
	idx := n % len(streamPalette)
	if idx < 0 {
		idx += len(streamPalette)
	}
	return streamPalette[idx]
}

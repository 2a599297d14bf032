package pipeline

import (
	"regexp"
	"strings"
)

var linkSeparator = regexp.MustCompile(`;\s*`)

// ParseLinks 按分号拆分链接，去掉空项并补全协议
func ParseLinks(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	var links []string
	for _, part := range linkSeparator.Split(value, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		links = append(links, NormalizeLink(part))
	}
	return links
}

// NormalizeLink 裸域名补全为 https://
func NormalizeLink(link string) string {
	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return link
	}
	return "https://" + link
}

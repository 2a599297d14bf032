package pipeline

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CountryKey 国家分组键：去空白、兼容分解、去掉组合附加符号、小写。
// "Германия"、" германия "、"ГЕРМАНИЯ" 得到同一个键。
func CountryKey(country string) string {
	country = strings.Join(strings.Fields(country), " ")
	if country == "" {
		return ""
	}

	// transform/cases 的实例不能并发复用，每次新建
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, country)
	if err != nil {
		folded = country
	}
	return cases.Lower(language.Und).String(folded)
}

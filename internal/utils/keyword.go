package utils

import (
	"strings"
	"unicode/utf8"
)

// MaxKeywordLength 搜索词最大字符数
const MaxKeywordLength = 200

// NormalizeKeyword 统计用的搜索词：合并空白、转小写、截断
func NormalizeKeyword(keyword string) string {
	keyword = strings.ToLower(strings.Join(strings.Fields(keyword), " "))
	if utf8.RuneCountInString(keyword) <= MaxKeywordLength {
		return keyword
	}
	runes := []rune(keyword)
	return strings.TrimSpace(string(runes[:MaxKeywordLength]))
}

package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeKeyword(t *testing.T) {
	cases := map[string]string{
		"  Alien ":           "alien",
		"The   Dark\tKnight": "the dark knight",
		"流浪地球":               "流浪地球",
		"   ":                "",
	}
	for in, want := range cases {
		if got := NormalizeKeyword(in); got != want {
			t.Errorf("NormalizeKeyword(%q) = %q, want %q", in, got, want)
		}
	}

	long := NormalizeKeyword(strings.Repeat("星", MaxKeywordLength+10))
	if utf8.RuneCountInString(long) != MaxKeywordLength {
		t.Errorf("long keyword has %d runes", utf8.RuneCountInString(long))
	}
}

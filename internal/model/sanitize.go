package model

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Ограничения входных данных на границе API.
// Формат ключей должен совпадать с ключами документа один в один,
// иначе брони "потеряются" при чтении.
const (
	MinDuration = 1
	MaxDuration = 8
	MaxUserLen  = 100
)

var (
	dateKeyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeKeyRe = regexp.MustCompile(`^\d{2}:00$`)
	htmlTagRe = regexp.MustCompile(`<[^>]*>`)
	injectRe  = regexp.MustCompile(`[<>'"]`)
)

// ValidDateKey проверяет формат YYYY-MM-DD
func ValidDateKey(s string) bool {
	return dateKeyRe.MatchString(s)
}

// ValidTimeKey проверяет формат HH:00
func ValidTimeKey(s string) bool {
	return timeKeyRe.MatchString(s)
}

// ValidDuration проверяет что длительность в диапазоне [1,8]
func ValidDuration(d int) bool {
	return d >= MinDuration && d <= MaxDuration
}

// SanitizeUser чистит свободный текст: убирает HTML-теги и опасные символы,
// обрезает пробелы и ограничивает длину
func SanitizeUser(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = injectRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if len(s) > MaxUserLen {
		// режем по границе руны, чтобы не оставить битый UTF-8
		cut := MaxUserLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}

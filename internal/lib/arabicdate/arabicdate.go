// Package arabicdate форматирует даты и время расписания мастер-классов
// на арабском языке. Все даты привязаны к UTC, поэтому результат не зависит
// от часового пояса процесса.
package arabicdate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidValue возвращается, если строку не удалось разобрать как дату или время.
var ErrInvalidValue = errors.New("invalid date or time value")

var months = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

var weekdays = [...]string{
	"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت",
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

var digits = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// ParseDate разбирает дату API (YYYY-MM-DD или RFC 3339) и возвращает её в UTC.
func ParseDate(value string) (time.Time, error) {
	const op = "arabicdate.ParseDate"
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: %q: %w", op, value, ErrInvalidValue)
}

// FormatDate возвращает длинную форму даты, например "٢٥ ديسمبر ٢٠٢٥".
// Неразборчивое значение возвращается как есть.
func FormatDate(value string) string {
	t, err := ParseDate(value)
	if err != nil {
		return value
	}
	return FormatTime(t)
}

// FormatTime форматирует момент времени как дату в UTC.
func FormatTime(t time.Time) string {
	t = t.UTC()
	return ToArabicDigits(fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year()))
}

// FormatDateWithWeekday добавляет день недели: "الخميس، ٢٥ ديسمبر ٢٠٢٥".
func FormatDateWithWeekday(value string) string {
	t, err := ParseDate(value)
	if err != nil {
		return value
	}
	return weekdays[t.Weekday()] + "، " + FormatTime(t)
}

// FormatClock переводит "HH:MM" (или "HH:MM:SS") в 12-часовой формат с
// арабским обозначением половины суток: "18:30" -> "٦:٣٠ م".
func FormatClock(value string) (string, error) {
	const op = "arabicdate.FormatClock"
	value = strings.TrimSpace(value)
	var t time.Time
	var err error
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err = time.Parse(layout, value); err == nil {
			break
		}
	}
	if err != nil {
		return "", fmt.Errorf("%s: %q: %w", op, value, ErrInvalidValue)
	}

	suffix := "ص"
	if t.Hour() >= 12 {
		suffix = "م"
	}
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	return ToArabicDigits(fmt.Sprintf("%d:%02d %s", hour, t.Minute(), suffix)), nil
}

// ToArabicDigits заменяет латинские цифры на арабско-индийские.
func ToArabicDigits(s string) string {
	return digits.Replace(s)
}

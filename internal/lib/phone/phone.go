// Package phone нормализует номера телефонов (WhatsApp) к единому международному
// виду без знака "+": только цифры, код страны и абонентский номер.
//
// По нормализованному номеру подарки связываются с получателем, поэтому
// Normalize обязана быть идемпотентной.
package phone

import (
	"strings"
)

// gulfCodes — коды стран Персидского залива, после которых встречается
// лишний ведущий ноль (например +971 050...).
var gulfCodes = []string{"971", "966", "965", "974", "973", "968"}

// minSubscriberDigits — минимальная длина абонентской части номера, чтобы
// префикс считался кодом страны, а не частью локального номера.
const minSubscriberDigits = 8

// minInternationalDigits — номер такой длины без ведущего нуля считается
// уже содержащим код страны.
const minInternationalDigits = 11

// Normalize приводит номер к виду "<код страны><номер>".
//
// countryCode используется для локальных номеров (начинающихся с 0 или без
// кода страны) и может быть пустым.
func Normalize(raw, countryCode string) string {
	digits, international := clean(raw)
	if digits == "" {
		return ""
	}
	cc := onlyDigits(countryCode)

	if !international {
		local := strings.TrimLeft(digits, "0")
		switch {
		case cc != "" && hasCode(digits, cc):
		case knownCode(digits) != "":
		case local == digits && len(digits) >= minInternationalDigits:
		case cc != "" && len(local) >= minSubscriberDigits:
			digits = cc + local
		}
	}
	return stripTrunkZero(digits, cc)
}

// Equal сообщает, указывают ли два номера на одного абонента.
func Equal(a, aCountryCode, b, bCountryCode string) bool {
	na := Normalize(a, aCountryCode)
	return na != "" && na == Normalize(b, bCountryCode)
}

// clean оставляет только цифры и определяет, был ли у номера международный
// префикс "+" или "00".
func clean(raw string) (string, bool) {
	s := strings.TrimSpace(toLatinDigits(raw))
	international := strings.HasPrefix(s, "+")
	digits := onlyDigits(s)
	if !international && strings.HasPrefix(digits, "00") {
		digits = digits[2:]
		international = true
	}
	return digits, international
}

func hasCode(digits, code string) bool {
	return strings.HasPrefix(digits, code) && len(digits)-len(code) >= minSubscriberDigits
}

func knownCode(digits string) string {
	for _, code := range gulfCodes {
		if hasCode(digits, code) {
			return code
		}
	}
	return ""
}

// stripTrunkZero убирает нули между кодом страны и абонентским номером.
func stripTrunkZero(digits, cc string) string {
	codes := gulfCodes
	if cc != "" {
		codes = append([]string{cc}, gulfCodes...)
	}
	for _, code := range codes {
		if !strings.HasPrefix(digits, code+"0") {
			continue
		}
		rest := digits[len(code):]
		if len(rest) <= minSubscriberDigits {
			continue
		}
		return code + strings.TrimLeft(rest, "0")
	}
	return digits
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// toLatinDigits заменяет арабско-индийские и персидские цифры на латинские.
func toLatinDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		}
		return r
	}, s)
}

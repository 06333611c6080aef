// Package certificate рисует сертификат участника: фон шаблона, поверх
// него текстовые поля с подставленными данными, результат — одностраничный PDF.
package certificate

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Плейсхолдеры текстовых полей.
const (
	TokenUserName         = "{{USER_NAME}}"
	TokenWorkshopTitle    = "{{WORKSHOP_TITLE}}"
	TokenWorkshopDate     = "{{WORKSHOP_DATE}}"
	TokenWorkshopLocation = "{{WORKSHOP_LOCATION}}"
	TokenInstructorName   = "{{INSTRUCTOR_NAME}}"
)

// Align выравнивание поля относительно X.
type Align string

// Варианты выравнивания.
const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Field текстовое поле. X, Y, FontSize и MaxWidth — доли ширины/высоты
// шаблона: X и MaxWidth от ширины, Y и FontSize от высоты. Y — базовая линия.
type Field struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"font_size"`
	Color    string  `json:"color,omitempty"`
	Align    Align   `json:"align,omitempty"`
	MaxWidth float64 `json:"max_width,omitempty"`
}

// Template фон в PNG/JPEG и поля. Width и Height по умолчанию берутся из фона.
type Template struct {
	Background []byte  `json:"-"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Fields     []Field `json:"fields"`
}

// Data значения для подстановки.
type Data struct {
	UserName         string
	WorkshopTitle    string
	WorkshopDate     string
	WorkshopLocation string
	InstructorName   string
}

// Substitute заменяет все вхождения известных плейсхолдеров.
func Substitute(text string, d Data) string {
	r := strings.NewReplacer(
		TokenUserName, clean(d.UserName),
		TokenWorkshopTitle, clean(d.WorkshopTitle),
		TokenWorkshopDate, clean(d.WorkshopDate),
		TokenWorkshopLocation, clean(d.WorkshopLocation),
		TokenInstructorName, clean(NormalizeInstructorName(d.InstructorName)),
	)
	return r.Replace(text)
}

func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Honorific каноническое обращение к ведущей бренда.
const Honorific = "الدكتورة"

var titlePrefixes = []string{
	"الدكتورة", "الدكتوره", "دكتورة", "دكتوره", "د.", "د/", "د ",
	"Dr.", "Dr ", "dr.", "dr ", "DR.",
}

var brandNames = []string{"هوب", "hope"}

// NormalizeInstructorName переписывает титул ведущей бренда в каноническое
// «الدكتورة». Прочие имена возвращаются без изменений.
func NormalizeInstructorName(name string) string {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	isBrand := false
	for _, b := range brandNames {
		if strings.Contains(lower, b) {
			isBrand = true
			break
		}
	}
	if !isBrand {
		return name
	}
	for _, p := range titlePrefixes {
		if strings.HasPrefix(name, p) {
			return Honorific + " " + strings.TrimSpace(strings.TrimPrefix(name, p))
		}
	}
	return name
}

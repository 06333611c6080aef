package certificate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// descriptor — файл описания шаблона; background указывается относительно него.
type descriptor struct {
	Template
	BackgroundPath string `json:"background"`
}

// LoadTemplate читает описание шаблона и его фон с диска.
func LoadTemplate(path string) (*Template, error) {
	const op = "certificate.LoadTemplate"
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var d descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidTemplate, err)
	}
	if d.BackgroundPath == "" || len(d.Fields) == 0 {
		return nil, fmt.Errorf("%s: %w: background and fields are required", op, ErrInvalidTemplate)
	}
	bg := d.BackgroundPath
	if !filepath.IsAbs(bg) {
		bg = filepath.Join(filepath.Dir(path), bg)
	}
	d.Template.Background, err = os.ReadFile(bg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &d.Template, nil
}

// LoadRenderer читает шрифт и шаблон. Пустые пути означают, что локальный
// рендеринг выключен: возвращаются nil без ошибки.
func LoadRenderer(templatePath, fontPath string) (*Renderer, *Template, error) {
	const op = "certificate.LoadRenderer"
	if templatePath == "" || fontPath == "" {
		return nil, nil, nil
	}
	fontData, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	r, err := NewRenderer(fontData)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	tpl, err := LoadTemplate(templatePath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return r, tpl, nil
}

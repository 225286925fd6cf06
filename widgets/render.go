package widgets

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"widget-showcase/lazyload/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type embedData struct {
	WidgetType string
	ID         string
	Src        string
	Settings   template.JS
}

// RenderEmbed gera o markup real do widget: o container TradingView com a tag
// script assíncrona e os settings em JSON no corpo.
func RenderEmbed(p *domain.Placeholder) (string, error) {
	settings, err := settingsJSON(p.Target.Settings)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", p.ID, err)
	}
	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "embed.html.tmpl", embedData{
		WidgetType: p.WidgetType,
		ID:         p.ID,
		Src:        p.Target.ScriptURL,
		Settings:   settings,
	})
	if err != nil {
		return "", fmt.Errorf("render %s: %w", p.ID, err)
	}
	return buf.String(), nil
}

// RenderPlaceholder gera o markup inerte com o indicador de carregamento.
func RenderPlaceholder(p *domain.Placeholder) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "placeholder.html.tmpl", p); err != nil {
		return "", fmt.Errorf("render placeholder %s: %w", p.ID, err)
	}
	return template.HTML(buf.String()), nil
}

// PageData alimenta a página: a sessão e os placeholders na ordem de exibição.
type PageData struct {
	Title        string
	SessionID    string
	Placeholders []*domain.Placeholder
}

func RenderPage(w io.Writer, data PageData) error {
	if data.Title == "" {
		data.Title = "TradingView Widgets Showcase"
	}
	return tmpl.ExecuteTemplate(w, "page.html.tmpl", data)
}

// settingsJSON serializa os settings para o corpo de uma tag script.
// json.Marshal já escapa <, > e &; "</" nunca aparece.
func settingsJSON(settings map[string]any) (template.JS, error) {
	if settings == nil {
		settings = map[string]any{}
	}
	b, err := json.Marshal(settings)
	if err != nil {
		return "", err
	}
	return template.JS(strings.TrimSpace(string(b))), nil
}

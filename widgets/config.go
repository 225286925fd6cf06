package widgets

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"strings"

	"widget-showcase/lazyload/domain"
)

const (
	TypeTickerTape        = "ticker-tape"
	TypeSingleQuote       = "single-quote"
	TypeMiniChart         = "mini-chart"
	TypeTechnicalAnalysis = "technical-analysis"
	TypeSymbolInfo        = "symbol-info"
	TypeCompanyProfile    = "company-profile"

	// SymbolQueryParam é o parâmetro de query que troca o símbolo em destaque.
	SymbolQueryParam = "tvwidgetsymbol"

	DefaultScriptBase = "https://s3.tradingview.com"
)

var ErrUnknownWidget = errors.New("unknown widget type")

// Widget descreve um tipo de widget: o script remoto e seus settings.
type Widget struct {
	ScriptURL string         `yaml:"src"`
	Settings  map[string]any `yaml:"settings"`
	// UsesSymbol indica que o setting "symbol" recebe o símbolo do slot.
	UsesSymbol bool `yaml:"uses_symbol"`
}

type Symbol struct {
	Exchange string `yaml:"exchange"`
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
}

// TapeSymbol é o formato que o ticker tape espera.
type TapeSymbol struct {
	ProName string `json:"proName"`
	Title   string `json:"title"`
}

type Table struct {
	Widgets  map[string]Widget `yaml:"widgets"`
	Defaults map[string]any    `yaml:"defaults"`
	Symbols  []Symbol          `yaml:"symbols"`
	Featured string            `yaml:"featured"`
	Layout   []Slot            `yaml:"layout"`
}

func FormattedSymbol(exchange, symbol string) string {
	return exchange + ":" + symbol
}

// SymbolFromQuery devolve o símbolo pedido na URL ou "" quando ausente.
func SymbolFromQuery(v url.Values) string {
	return strings.TrimSpace(v.Get(SymbolQueryParam))
}

func (t Table) TickerTapeSymbols() []TapeSymbol {
	out := make([]TapeSymbol, 0, len(t.Symbols))
	for _, s := range t.Symbols {
		out = append(out, TapeSymbol{ProName: FormattedSymbol(s.Exchange, s.Symbol), Title: s.Name})
	}
	return out
}

// Target monta o destino de um widget: defaults por baixo, settings do tipo
// por cima e, quando o tipo usa símbolo, o símbolo do slot.
func (t Table) Target(widgetType, symbol string) (domain.Target, error) {
	w, ok := t.Widgets[widgetType]
	if !ok {
		return domain.Target{}, fmt.Errorf("%w: %q", ErrUnknownWidget, widgetType)
	}

	settings := make(map[string]any, len(t.Defaults)+len(w.Settings)+1)
	maps.Copy(settings, t.Defaults)
	maps.Copy(settings, w.Settings)

	if w.UsesSymbol {
		if symbol == "" {
			symbol = t.Featured
		}
		settings["symbol"] = symbol
	}
	if widgetType == TypeTickerTape {
		if _, set := w.Settings["symbols"]; !set {
			settings["symbols"] = t.TickerTapeSymbols()
		}
	}
	return domain.Target{ScriptURL: w.ScriptURL, Settings: settings}, nil
}

// WithScriptBase troca o host dos scripts que começam com DefaultScriptBase
// (útil para apontar para um stub local).
func (t Table) WithScriptBase(base string) Table {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" || base == DefaultScriptBase {
		return t
	}
	out := t
	out.Widgets = make(map[string]Widget, len(t.Widgets))
	for k, w := range t.Widgets {
		if rest, ok := strings.CutPrefix(w.ScriptURL, DefaultScriptBase); ok {
			w.ScriptURL = base + rest
		}
		out.Widgets[k] = w
	}
	return out
}

// ScriptURLs lista as URLs distintas da tabela (warmup).
func (t Table) ScriptURLs() []string {
	seen := make(map[string]bool, len(t.Widgets))
	var out []string
	for _, w := range t.Widgets {
		if w.ScriptURL == "" || seen[w.ScriptURL] {
			continue
		}
		seen[w.ScriptURL] = true
		out = append(out, w.ScriptURL)
	}
	return out
}

func embedURL(name string) string {
	return DefaultScriptBase + "/external-embedding/embed-widget-" + name + ".js"
}

// Builtin é a tabela padrão da vitrine.
func Builtin() Table {
	return Table{
		Defaults: map[string]any{
			"colorTheme":     "light",
			"locale":         "en",
			"isTransparent":  false,
			"showSymbolLogo": true,
		},
		Symbols: []Symbol{
			{Exchange: "NASDAQ", Symbol: "AAPL", Name: "Apple"},
			{Exchange: "NASDAQ", Symbol: "GOOGL", Name: "Google"},
			{Exchange: "NASDAQ", Symbol: "TSLA", Name: "Tesla"},
			{Exchange: "NASDAQ", Symbol: "META", Name: "Meta"},
			{Exchange: "NASDAQ", Symbol: "NVDA", Name: "NVIDIA"},
			{Exchange: "NASDAQ", Symbol: "MSFT", Name: "Microsoft"},
			{Exchange: "NASDAQ", Symbol: "AMZN", Name: "Amazon"},
			{Exchange: "OTC", Symbol: "XIACY", Name: "Xiaomi"},
		},
		Featured: "NASDAQ:AAPL",
		Widgets: map[string]Widget{
			TypeTickerTape: {
				ScriptURL: embedURL("ticker-tape"),
				Settings: map[string]any{
					"displayMode": "adaptive",
				},
			},
			TypeSingleQuote: {
				ScriptURL:  embedURL("single-quote"),
				Settings:   map[string]any{"width": "100%"},
				UsesSymbol: true,
			},
			TypeMiniChart: {
				ScriptURL: embedURL("mini-symbol-overview"),
				Settings: map[string]any{
					"width":                "100%",
					"height":               220,
					"dateRange":            "1D",
					"trendLineColor":       "rgba(41, 98, 255, 1)",
					"underLineColor":       "rgba(41, 98, 255, 0.3)",
					"underLineBottomColor": "rgba(41, 98, 255, 0)",
				},
				UsesSymbol: true,
			},
			TypeTechnicalAnalysis: {
				ScriptURL: embedURL("technical-analysis"),
				Settings: map[string]any{
					"interval":         "1m",
					"width":            "100%",
					"height":           450,
					"showIntervalTabs": true,
				},
				UsesSymbol: true,
			},
			TypeSymbolInfo: {
				ScriptURL:  embedURL("symbol-info"),
				Settings:   map[string]any{"width": "100%"},
				UsesSymbol: true,
			},
			TypeCompanyProfile: {
				ScriptURL: embedURL("symbol-profile"),
				Settings: map[string]any{
					"width":  "100%",
					"height": 480,
				},
				UsesSymbol: true,
			},
		},
	}
}

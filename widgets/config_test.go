package widgets

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestFormattedSymbol(t *testing.T) {
	if got := FormattedSymbol("NASDAQ", "AAPL"); got != "NASDAQ:AAPL" {
		t.Fatalf("expected NASDAQ:AAPL, got %q", got)
	}
}

func TestSymbolFromQuery(t *testing.T) {
	v, _ := url.ParseQuery("tvwidgetsymbol=NASDAQ%3ATSLA&x=1")
	if got := SymbolFromQuery(v); got != "NASDAQ:TSLA" {
		t.Fatalf("expected NASDAQ:TSLA, got %q", got)
	}
	if got := SymbolFromQuery(url.Values{}); got != "" {
		t.Fatalf("expected empty symbol, got %q", got)
	}
}

func TestTable_TargetMergesDefaultsUnderSettings(t *testing.T) {
	tb := Builtin()
	tb.Widgets[TypeMiniChart].Settings["colorTheme"] = "dark"

	target, err := tb.Target(TypeMiniChart, "NASDAQ:NVDA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(target.ScriptURL, "/embed-widget-mini-symbol-overview.js") {
		t.Fatalf("unexpected script url %q", target.ScriptURL)
	}
	s := target.Settings
	if s["colorTheme"] != "dark" {
		t.Fatalf("expected widget setting to win over default, got %v", s["colorTheme"])
	}
	if s["locale"] != "en" || s["showSymbolLogo"] != true {
		t.Fatalf("expected defaults present, got %v", s)
	}
	if s["symbol"] != "NASDAQ:NVDA" || s["height"] != 220 {
		t.Fatalf("unexpected settings %v", s)
	}
}

func TestTable_TargetDoesNotMutateTable(t *testing.T) {
	tb := Builtin()
	target, _ := tb.Target(TypeSymbolInfo, "NASDAQ:MSFT")
	target.Settings["width"] = "50%"

	if tb.Widgets[TypeSymbolInfo].Settings["width"] != "100%" {
		t.Fatalf("expected table settings untouched")
	}
	if _, ok := tb.Widgets[TypeSymbolInfo].Settings["symbol"]; ok {
		t.Fatalf("expected symbol not written into table")
	}
}

func TestTable_TargetFallsBackToFeatured(t *testing.T) {
	target, _ := Builtin().Target(TypeCompanyProfile, "")
	if target.Settings["symbol"] != "NASDAQ:AAPL" {
		t.Fatalf("expected featured symbol, got %v", target.Settings["symbol"])
	}
}

func TestTable_TickerTapeGetsSymbols(t *testing.T) {
	target, err := Builtin().Target(TypeTickerTape, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	syms, ok := target.Settings["symbols"].([]TapeSymbol)
	if !ok || len(syms) != 8 {
		t.Fatalf("expected 8 tape symbols, got %v", target.Settings["symbols"])
	}
	if syms[7] != (TapeSymbol{ProName: "OTC:XIACY", Title: "Xiaomi"}) {
		t.Fatalf("unexpected last symbol %+v", syms[7])
	}
	if _, ok := target.Settings["symbol"]; ok {
		t.Fatalf("expected ticker tape without single symbol")
	}
}

func TestTable_UnknownWidget(t *testing.T) {
	if _, err := Builtin().Target("heatmap", ""); !errors.Is(err, ErrUnknownWidget) {
		t.Fatalf("expected ErrUnknownWidget, got %v", err)
	}
}

func TestTable_WithScriptBase(t *testing.T) {
	tb := Builtin().WithScriptBase("http://127.0.0.1:8090/")
	got := tb.Widgets[TypeSingleQuote].ScriptURL
	if got != "http://127.0.0.1:8090/external-embedding/embed-widget-single-quote.js" {
		t.Fatalf("unexpected rewritten url %q", got)
	}
	if Builtin().Widgets[TypeSingleQuote].ScriptURL == got {
		t.Fatalf("expected builtin untouched")
	}
}

func TestTable_ScriptURLsDistinct(t *testing.T) {
	urls := Builtin().ScriptURLs()
	if len(urls) != 6 {
		t.Fatalf("expected 6 distinct urls, got %d", len(urls))
	}
}

package widgets

import (
	"errors"
	"testing"

	"widget-showcase/lazyload/domain"
)

func TestTable_DefaultPageLayout(t *testing.T) {
	slots := Builtin().PageLayout("NASDAQ:TSLA")
	if len(slots) != 5+8 {
		t.Fatalf("expected 13 slots, got %d", len(slots))
	}
	if slots[0].Type != TypeTickerTape {
		t.Fatalf("expected ticker tape first, got %q", slots[0].Type)
	}
	if slots[2] != (Slot{Type: TypeMiniChart, Symbol: "NASDAQ:TSLA"}) {
		t.Fatalf("expected mini chart for featured symbol, got %+v", slots[2])
	}
	if slots[5] != (Slot{Type: TypeSingleQuote, Symbol: "NASDAQ:AAPL"}) {
		t.Fatalf("expected first single quote for AAPL, got %+v", slots[5])
	}
}

func TestTable_ConfiguredLayoutInheritsFeatured(t *testing.T) {
	tb := Builtin()
	tb.Layout = []Slot{{Type: TypeMiniChart}, {Type: TypeSymbolInfo, Symbol: "NASDAQ:META"}}

	slots := tb.PageLayout("")
	if slots[0].Symbol != "NASDAQ:AAPL" || slots[1].Symbol != "NASDAQ:META" {
		t.Fatalf("unexpected slots %+v", slots)
	}
}

func TestTable_Placeholders(t *testing.T) {
	ps, err := Builtin().Placeholders([]Slot{{Type: TypeTickerTape}, {Type: TypeMiniChart, Symbol: "NASDAQ:AMZN"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ps) != 2 || ps[1].ID != "mini-chart-1" || ps[1].WidgetType != TypeMiniChart {
		t.Fatalf("unexpected placeholders %+v", ps)
	}
	if ps[1].State() != domain.StateUnloaded {
		t.Fatalf("expected unloaded placeholder, got %s", ps[1].State())
	}

	if _, err := Builtin().Placeholders([]Slot{{Type: "bogus"}}); !errors.Is(err, ErrUnknownWidget) {
		t.Fatalf("expected ErrUnknownWidget, got %v", err)
	}
}

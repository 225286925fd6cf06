package widgets

import (
	"fmt"

	"widget-showcase/lazyload/domain"
)

// Slot é uma posição da página: um tipo de widget e, opcionalmente, o símbolo.
type Slot struct {
	Type   string `yaml:"type"`
	Symbol string `yaml:"symbol"`
}

// PageLayout devolve os slots da página. Sem layout configurado: ticker tape,
// os widgets do símbolo em destaque e uma cotação por símbolo da lista.
// featured vazio usa Table.Featured; slots sem símbolo herdam featured.
func (t Table) PageLayout(featured string) []Slot {
	if featured == "" {
		featured = t.Featured
	}

	if len(t.Layout) > 0 {
		out := make([]Slot, len(t.Layout))
		for i, s := range t.Layout {
			if s.Symbol == "" {
				s.Symbol = featured
			}
			out[i] = s
		}
		return out
	}

	out := []Slot{
		{Type: TypeTickerTape},
		{Type: TypeSymbolInfo, Symbol: featured},
		{Type: TypeMiniChart, Symbol: featured},
		{Type: TypeTechnicalAnalysis, Symbol: featured},
		{Type: TypeCompanyProfile, Symbol: featured},
	}
	for _, s := range t.Symbols {
		out = append(out, Slot{Type: TypeSingleQuote, Symbol: FormattedSymbol(s.Exchange, s.Symbol)})
	}
	return out
}

// Placeholders cria um placeholder por slot, com id "<tipo>-<posição>".
func (t Table) Placeholders(slots []Slot) ([]*domain.Placeholder, error) {
	out := make([]*domain.Placeholder, 0, len(slots))
	for i, s := range slots {
		target, err := t.Target(s.Type, s.Symbol)
		if err != nil {
			return nil, fmt.Errorf("layout slot %d: %w", i, err)
		}
		out = append(out, domain.NewPlaceholder(fmt.Sprintf("%s-%d", s.Type, i), s.Type, target))
	}
	return out, nil
}

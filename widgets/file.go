package widgets

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile lê um YAML no formato de Table e aplica sobre Builtin: tipos novos
// são adicionados, tipos existentes são substituídos, defaults são mesclados,
// symbols/featured/layout substituem quando presentes.
func LoadFile(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read widgets file: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (Table, error) {
	var over Table
	if err := yaml.Unmarshal(b, &over); err != nil {
		return Table{}, fmt.Errorf("parse widgets file: %w", err)
	}

	t := Builtin()
	for k, w := range over.Widgets {
		if w.ScriptURL == "" {
			return Table{}, fmt.Errorf("widget %q: src is required", k)
		}
		t.Widgets[k] = w
	}
	maps.Copy(t.Defaults, over.Defaults)
	if len(over.Symbols) > 0 {
		t.Symbols = over.Symbols
	}
	if over.Featured != "" {
		t.Featured = over.Featured
	}
	if len(over.Layout) > 0 {
		for i, s := range over.Layout {
			if _, ok := t.Widgets[s.Type]; !ok {
				return Table{}, fmt.Errorf("layout slot %d: %w: %q", i, ErrUnknownWidget, s.Type)
			}
		}
		t.Layout = over.Layout
	}
	return t, nil
}

package domain

import (
	"context"
	"time"
)

// Metrics é o registro exibido na página: quantos widgets carregaram e quando
// (relativo ao início da sessão) o primeiro e o último terminaram.
type Metrics struct {
	Loaded int
	First  time.Duration
	Last   time.Duration
}

// LoadEvent é o resultado de um carregamento, para estatística.
//
// Cuidado com cardinalidade: Session/Placeholder não devem virar chave em bases
// como Redis sem controle.
type LoadEvent struct {
	Session       string
	PlaceholderID string
	WidgetType    string
	Loaded        bool
	Duration      time.Duration
	At            time.Time
}

// StatsStore é a estratégia de persistência das estatísticas de carregamento.
// A fila trata erros como best-effort.
type StatsStore interface {
	Record(ctx context.Context, ev LoadEvent) error
}

package domain

import (
	"context"
	"errors"
)

// Priority ordena a fila de carregamento: maior primeiro.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
)

// ErrLoadFailed é o único tipo de falha do domínio: o widget não sinalizou carga.
var ErrLoadFailed = errors.New("widget failed to signal load")

// Loader carrega o conteúdo real de um placeholder e devolve o markup.
//
// Um Loader que nunca retorna segura a vaga da fila para sempre; a fila não
// impõe timeout.
type Loader interface {
	Load(ctx context.Context, p *Placeholder) (markup string, err error)
}

// LoaderFunc adapta uma função comum para Loader.
type LoaderFunc func(ctx context.Context, p *Placeholder) (string, error)

func (f LoaderFunc) Load(ctx context.Context, p *Placeholder) (string, error) { return f(ctx, p) }

// SlotPool representa a capacidade finita de carregamentos simultâneos.
//
// TryAcquire não bloqueia; ao conseguir a vaga retorna uma função de release
// que deve ser chamada exatamente uma vez.
type SlotPool interface {
	TryAcquire() (release func(), ok bool)
	InUse() int
	Cap() int
}

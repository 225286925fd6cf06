package application

import "widget-showcase/lazyload/domain"

// Classify define a prioridade pela posição vertical no momento do enfileiramento:
// acima da dobra é alta, até uma tela abaixo é média, o resto é baixa.
// A classificação é feita uma vez só; rolar depois não reclassifica.
func Classify(top, viewportHeight float64) domain.Priority {
	switch {
	case top < viewportHeight:
		return domain.PriorityHigh
	case top < 2*viewportHeight:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

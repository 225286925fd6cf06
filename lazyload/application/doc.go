// Package application contém os casos de uso do carregamento preguiçoso:
// gatilho de viewport, fila de prioridade com limite de concorrência,
// monitor de conclusão e a sessão de página que liga os três.
//
// Ele depende apenas do pacote domain e não conhece net/http.
package application

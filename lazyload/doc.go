// Package lazyload fornece o adapter HTTP (net/http) do carregamento preguiçoso de widgets.
//
// Visão geral (camadas):
//
//   - domain: placeholder, geometria, eventos e contratos (sem net/http)
//   - application: gatilho de viewport, fila de prioridade, monitor e sessão
//   - infra: implementações concretas (semáforo, busca de scripts, stats, sessões)
//   - lazyload (este pacote): rotas HTTP, websocket de eventos e limite de relatórios
//
// Fluxo:
//
//  1. GET / cria a sessão e a página com os placeholders
//  2. O navegador envia a geometria de cada placeholder em POST .../visibility
//  3. O gatilho dispara uma vez; a fila admite no máximo N cargas ao mesmo tempo
//  4. widget-loaded / widgets-stats-update saem pelo websocket .../events
//  5. O navegador busca o markup em GET .../widgets/{pid} e troca o placeholder
//
// Variáveis de ambiente do binário (cmd/showcase) controlam o comportamento,
// como LOAD_CONCURRENCY, TRIGGER_MARGIN, TRIGGER_THRESHOLD e SESSION_TTL.
package lazyload

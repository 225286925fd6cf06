// Package infra contém implementações concretas (infraestrutura) para os contratos
// definidos no pacote domain.
//
// Exemplos:
//   - SlotPool: semáforo em channel para o limite de carregamentos simultâneos
//   - ScriptLoader: busca o script remoto do widget (x/time/rate, x/sync) e renderiza o embed
//   - MemoryStatsStore / RedisStatsStore: estatísticas de carregamento
//   - SessionStore: sessões de página com expiração por inatividade e teto
//   - ReportLimits: token bucket por sessão (golang.org/x/time/rate) para os relatórios de visibilidade
package infra

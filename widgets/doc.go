// Package widgets é a tabela de configuração dos widgets TradingView: tipo do
// widget -> script remoto + settings, defaults, símbolos e layout da página.
//
// Também renderiza o markup (placeholder, embed real e a página) com html/template.
// A tabela embutida pode ser estendida por um arquivo YAML (LoadFile).
package widgets

// Package domain define contratos e tipos de domínio do carregamento preguiçoso de widgets.
//
// Este pacote não depende de net/http, de html nem de implementações concretas.
// Placeholder, Region/Viewport, eventos e estatísticas vivem aqui para que
// application e infra possam ser testados isoladamente.
package domain

package domain

import "time"

type EventType string

const (
	EventWidgetLoaded EventType = "widget-loaded"
	EventStatsUpdate  EventType = "widgets-stats-update"
)

// Event é o sinal fire-and-forget entre componentes. Não há ack.
type Event struct {
	Type          EventType `json:"type"`
	WidgetType    string    `json:"widgetType,omitempty"`
	PlaceholderID string    `json:"placeholderId,omitempty"`
	LoadedCount   int       `json:"loadedCount,omitempty"`
	At            time.Time `json:"at"`
}

// EventSink recebe eventos. Implementações não podem bloquear quem publica.
type EventSink interface {
	Publish(Event)
}

// Sinks publica o mesmo evento em vários destinos, na ordem.
type Sinks []EventSink

func (s Sinks) Publish(ev Event) {
	for _, sink := range s {
		if sink != nil {
			sink.Publish(ev)
		}
	}
}

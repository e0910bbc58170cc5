package service

// EventPublisher pushes ledger events to connected clients. The websocket hub
// implements it.
type EventPublisher interface {
	Publish(event string, payload map[string]interface{})
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, map[string]interface{}) {}

const EventLedgerUpdate = "ledger_update"

package service

import "context"

// ─────────────────────────────────────────────────────────────
// EventEmitter — decouples services from wailsRuntime
// ─────────────────────────────────────────────────────────────

// EventEmitter pushes events to the frontend. The App struct implements it
// by delegating to wailsRuntime.EventsEmit; services take the interface so
// they stay testable with a mock.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// Events emitted by the layout services.
const (
	EventLayoutChanged  = "layout:changed"
	EventLayoutSaved    = "layout:saved"
	EventAssetChanged   = "asset:changed"
	EventSnapshotPushed = "snapshot:pushed"
)

// MockEmitter is a test-friendly EventEmitter that records all calls.
type MockEmitter struct {
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

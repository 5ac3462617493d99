// Package events publishes tracker mutations to downstream consumers.
package events

import "sync"

// Type identifies what happened.
type Type string

const (
	TypeWalletAdded        Type = "WALLET_ADDED"
	TypeWalletRemoved      Type = "WALLET_REMOVED"
	TypeChainAdded         Type = "CHAIN_ADDED"
	TypeChainRemoved       Type = "CHAIN_REMOVED"
	TypeTransactionLogged  Type = "TRANSACTION_LOGGED"
	TypeTransactionRemoved Type = "TRANSACTION_REMOVED"
	TypeSnapshotRecorded   Type = "SNAPSHOT_RECORDED"
)

// Event describes one mutation of the tracker state.
type Event struct {
	Type      Type   `json:"type"`
	RecordID  string `json:"recordId"`
	Timestamp int64  `json:"timestamp"` // emission time (ms)
	Payload   any    `json:"payload,omitempty"`
}

// Emitter defines the interface for emitting events.
type Emitter interface {
	Emit(event Event) error
	Close() error
}

// Recorder is an Emitter that keeps every event in memory. Used in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything emitted so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

var _ Emitter = (*Recorder)(nil)

package events

import "errors"

// FanOut is an Emitter that forwards every event to all wrapped emitters.
// The server uses it to feed the log or Kafka and the live WebSocket hub
// from one stream.
type FanOut struct {
	emitters []Emitter
}

// NewFanOut creates a FanOut over the given emitters.
func NewFanOut(emitters ...Emitter) *FanOut {
	return &FanOut{emitters: emitters}
}

// Emit forwards the event to every emitter. All emitters see the event
// even when one fails; failures are joined into the returned error.
func (f *FanOut) Emit(event Event) error {
	var errs []error
	for _, e := range f.emitters {
		if err := e.Emit(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every wrapped emitter.
func (f *FanOut) Close() error {
	var errs []error
	for _, e := range f.emitters {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Emitter = (*FanOut)(nil)

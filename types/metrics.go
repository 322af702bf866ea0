package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.
*/
type Metrics interface {

	// Hit is called when the cache returns a fresh value.
	Hit()

	// Miss is called when a key is absent or has just expired.
	Miss()

	// Expire is called when an entry is dropped because it passed its expiresAt.
	Expire()

	// Corrupt is called when a durable record could not be decoded.
	Corrupt()

	// PersistError is called when a write or remove against the durable store fails.
	PersistError()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Callers that do not export metrics still get a working cache without
nil checks scattered through the engine.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()          {}
func (NoopMetrics) Miss()         {}
func (NoopMetrics) Expire()       {}
func (NoopMetrics) Corrupt()      {}
func (NoopMetrics) PersistError() {}

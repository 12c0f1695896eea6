// Package core defines the domain ports and error taxonomy of the
// Skyward flight engine. Adapters (HTTP, MQTT, stores, archive) depend
// on this package; it depends on nothing but the model.
package core

import "errors"

// The ingest and settlement error taxonomy. Callers branch with
// errors.Is; adapters map these onto transport status codes.
var (
	// ErrUnauthorized means the caller resolved to no company.
	ErrUnauthorized = errors.New("unauthorized: api key resolves to no company")

	// ErrMalformedSample means a required numeric field is missing or
	// not finite. The request still counts as contact for connectivity.
	ErrMalformedSample = errors.New("malformed sample")

	// ErrNoActiveFlight means the sample was accepted for connectivity
	// purposes but no session exists to apply it to.
	ErrNoActiveFlight = errors.New("no active flight for company")

	// ErrSettlementConflict marks a duplicate completion. The caller
	// receives the previously computed result, not a failure.
	ErrSettlementConflict = errors.New("session already settled")

	// ErrExternalWrite means a collaborator write failed during
	// settlement; the session stays pending so a retry can re-attempt
	// without double-charging.
	ErrExternalWrite = errors.New("external write failed, settlement pending")

	// ErrAircraftBusy enforces at most one active session per aircraft.
	ErrAircraftBusy = errors.New("aircraft already has an active session")

	// ErrNotFound is returned for unknown sessions, companies or aircraft.
	ErrNotFound = errors.New("not found")
)

package model

import "time"

// ConnectionStatus is the connectivity badge of a company's simulator link.
type ConnectionStatus string

const (
	// ConnectionConnected: samples are arriving within the staleness window.
	ConnectionConnected ConnectionStatus = "connected"
	// ConnectionConnecting: the company is known but has never sent a sample.
	ConnectionConnecting ConnectionStatus = "connecting"
	// ConnectionDisconnected: contact was lost past the staleness window.
	ConnectionDisconnected ConnectionStatus = "disconnected"
)

// ConnectionState tracks per-company simulator connectivity. Its
// lifecycle is independent of any FlightSession: the watchdog may flip
// the badge without ever touching an in-progress flight's state.
type ConnectionState struct {
	CompanyID    string           `json:"company_id"`
	Status       ConnectionStatus `json:"status"`
	LastSampleAt time.Time        `json:"last_sample_at"`
}

// SweepReport summarizes one watchdog pass over all companies.
type SweepReport struct {
	Checked  int                         `json:"checked"`
	Statuses map[string]ConnectionStatus `json:"statuses"`
}

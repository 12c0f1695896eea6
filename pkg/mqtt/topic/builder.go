package topic

import (
	"fmt"
)

// Constants defining the standard topic segments.
// These act as the protocol contract between the simulator-side ACARS
// client and the Skyward core. Changing these values will break
// compatibility with deployed clients.
const (
	// SuffixTelemetry represents the upstream telemetry topic (Sim -> Cloud).
	// Structure: {root}/telemetry/{apiKey}
	SuffixTelemetry = "telemetry"

	// SuffixTelemetryAck represents the downstream processing result topic (Cloud -> Sim).
	// Structure: {root}/telemetry/ack/{apiKey}
	SuffixTelemetryAck = "telemetry/ack"

	// SuffixSettlement represents the downstream settlement notification topic (Cloud -> Sim).
	// Published once when a flight session is finalized.
	// Structure: {root}/settlement/{apiKey}
	SuffixSettlement = "settlement"
)

// Builder encapsulates the logic for constructing MQTT topic strings.
// It ensures consistency between the ingress server and clients.
type Builder struct {
	// root is the base namespace for all topics (e.g., "skyward/v1").
	root string
}

// NewBuilder creates a new Builder with the specified root namespace.
func NewBuilder(root string) *Builder {
	return &Builder{root: root}
}

// Telemetry returns the topic a client publishes samples to.
// Direction: Sim -> Cloud
func (b *Builder) Telemetry(apiKey string) string {
	return b.build(SuffixTelemetry, apiKey)
}

// TelemetryWildcard returns the wildcard topic the core subscribes to
// in order to receive samples from every company.
// Result: {root}/telemetry/+
func (b *Builder) TelemetryWildcard() string {
	return b.build(SuffixTelemetry, Wildcard)
}

// TelemetryAck returns the topic the core publishes per-sample results to.
// Direction: Cloud -> Sim
func (b *Builder) TelemetryAck(apiKey string) string {
	return b.build(SuffixTelemetryAck, apiKey)
}

// Settlement returns the topic the core publishes settlement results to.
// Direction: Cloud -> Sim
func (b *Builder) Settlement(apiKey string) string {
	return b.build(SuffixSettlement, apiKey)
}

// build is a private helper to construct the final topic string.
// Pattern: {root}/{suffix}/{identifier}
func (b *Builder) build(suffix, id string) string {
	return fmt.Sprintf("%s/%s/%s", b.root, suffix, id)
}

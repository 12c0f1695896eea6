package topic

// Standard MQTT wildcard definitions.
const (
	// Wildcard is the single-level wildcard "+".
	// It matches exactly one topic level.
	// Example: "skyward/v1/telemetry/+" matches "skyward/v1/telemetry/key-1".
	Wildcard = "+"

	// MultiWildcard is the multi-level wildcard "#".
	// It matches the current level and all subsequent levels.
	// It must be the last character in the topic filter.
	// Example: "skyward/v1/#" matches "skyward/v1/settlement/key-1".
	MultiWildcard = "#"
)

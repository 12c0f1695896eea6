package topic

import "testing"

func TestBuilder(t *testing.T) {
	b := NewBuilder("skyward/v1")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"telemetry", b.Telemetry("key-123"), "skyward/v1/telemetry/key-123"},
		{"telemetry wildcard", b.TelemetryWildcard(), "skyward/v1/telemetry/+"},
		{"telemetry ack", b.TelemetryAck("key-123"), "skyward/v1/telemetry/ack/key-123"},
		{"settlement", b.Settlement("key-123"), "skyward/v1/settlement/key-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

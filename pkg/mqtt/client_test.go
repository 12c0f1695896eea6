package mqtt

import "testing"

func TestTopicsMatch(t *testing.T) {
	tests := []struct {
		filter string
		topic  string
		want   bool
	}{
		{"skyward/v1/telemetry/key-1", "skyward/v1/telemetry/key-1", true},
		{"skyward/v1/telemetry/+", "skyward/v1/telemetry/key-1", true},
		{"skyward/v1/telemetry/+", "skyward/v1/telemetry/key-1/extra", false},
		{"skyward/v1/telemetry/+", "skyward/v1/settlement/key-1", false},
		{"skyward/v1/#", "skyward/v1/telemetry/ack/key-1", true},
		{"skyward/v1/telemetry/key-1", "skyward/v1/telemetry/key-2", false},
		{"+/v1/telemetry/+", "skyward/v1/telemetry/key-1", true},
		{"skyward/v1/telemetry", "skyward/v1/telemetry/key-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.filter+" vs "+tt.topic, func(t *testing.T) {
			if got := topicsMatch(tt.filter, tt.topic); got != tt.want {
				t.Errorf("topicsMatch(%q, %q) = %v, want %v", tt.filter, tt.topic, got, tt.want)
			}
		})
	}
}

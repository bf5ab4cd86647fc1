package telemetry

import "testing"

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"observations", topics.Observations("roof-1"), "wxcore/observations/roof-1"},
		{"trend", topics.Trend("roof-1", "temperature_c"), "wxcore/trends/roof-1/temperature_c"},
		{"tendency", topics.Tendency("roof-1"), "wxcore/tendency/roof-1"},
		{"status", topics.Status("roof-1"), "wxcore/status/roof-1"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s topic = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

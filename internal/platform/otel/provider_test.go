package otel

import (
	"context"
	"testing"
)

func TestSettingsActive(t *testing.T) {
	cases := []struct {
		name     string
		settings Settings
		want     bool
	}{
		{"no endpoint", Settings{Enabled: true}, false},
		{"blank endpoint", Settings{Endpoint: "  ", Enabled: true}, false},
		{"disabled", Settings{Endpoint: "http://localhost:4318", Enabled: false}, false},
		{"enabled", Settings{Endpoint: "http://localhost:4318", Enabled: true}, true},
	}
	for _, tc := range cases {
		if got := tc.settings.Active(); got != tc.want {
			t.Errorf("%s: Active() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSetupReadsEnvironment(t *testing.T) {
	t.Setenv(EnvEndpoint, "http://localhost:4318")
	t.Setenv(EnvEnabled, "false")

	shutdown, err := Setup(context.Background(), "todo-test")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupRejectsBadSampleRatio(t *testing.T) {
	t.Setenv(EnvSampleRatio, "often")

	if _, err := Setup(context.Background(), "todo-test"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInstallWithEndpoint(t *testing.T) {
	// Documentation range address; nothing is exported because no span is
	// recorded.
	shutdown, err := Install(context.Background(), "todo-test", Settings{
		Endpoint:    "http://192.0.2.1:4318",
		Enabled:     true,
		SampleRatio: 0.5,
	})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

package tracking

import (
	"math"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DetectionInterval != 33*time.Millisecond {
		t.Errorf("Expected DetectionInterval=33ms, got %v", cfg.DetectionInterval)
	}
	if cfg.RetryDelay != 100*time.Millisecond {
		t.Errorf("Expected RetryDelay=100ms, got %v", cfg.RetryDelay)
	}
	if cfg.Blend != 0.15 {
		t.Errorf("Expected Blend=0.15, got %v", cfg.Blend)
	}
	if cfg.Interpolation != InterpolateSlerp {
		t.Errorf("Expected slerp interpolation, got %q", cfg.Interpolation)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should validate: %v", err)
	}
}

func TestLimitsConstants(t *testing.T) {
	// Yaw: π/4 = 45°
	if math.Abs(Degrees(DefaultMaxYaw)-45) > 1e-9 {
		t.Errorf("DefaultMaxYaw should be 45°, got %.3f°", Degrees(DefaultMaxYaw))
	}
	// Pitch: π/6 = 30°
	if math.Abs(Degrees(DefaultMaxPitch)-30) > 1e-9 {
		t.Errorf("DefaultMaxPitch should be 30°, got %.3f°", Degrees(DefaultMaxPitch))
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero blend", func(c *Config) { c.Blend = 0 }},
		{"blend above one", func(c *Config) { c.Blend = 1.5 }},
		{"unknown interpolation", func(c *Config) { c.Interpolation = "cubic" }},
		{"zero interval", func(c *Config) { c.DetectionInterval = 0 }},
		{"pitch past vertical", func(c *Config) { c.MaxPitch = 2 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestDegrees(t *testing.T) {
	if got := Degrees(DefaultMaxYaw); got < 44.9 || got > 45.1 {
		t.Errorf("Expected DefaultMaxYaw = 45°, got %.1f°", got)
	}
	if got := Degrees(DefaultMaxPitch); got < 29.9 || got > 30.1 {
		t.Errorf("Expected DefaultMaxPitch = 30°, got %.1f°", got)
	}
}

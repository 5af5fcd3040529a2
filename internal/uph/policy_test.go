package uph_test

import (
	"errors"
	"testing"

	"takt/internal/uph"
)

func TestDefaultPolicyIsValid(t *testing.T) {
	if err := uph.DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy should validate: %v", err)
	}
}

func TestPolicyValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*uph.Policy)
	}{
		{"zero duration floor", func(p *uph.Policy) { p.MinDurationHours = 0 }},
		{"negative duration floor", func(p *uph.Policy) { p.MinDurationHours = -1 }},
		{"zero uph floor", func(p *uph.Policy) { p.MinUnitsPerHour = 0 }},
		{"ceiling below floor", func(p *uph.Policy) { p.MaxUnitsPerHour = 0.5 }},
		{"ceiling equals floor", func(p *uph.Policy) { p.MaxUnitsPerHour = p.MinUnitsPerHour }},
		{"empty averaging", func(p *uph.Policy) { p.Averaging = "" }},
		{"unknown averaging", func(p *uph.Policy) { p.Averaging = "median" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := uph.DefaultPolicy()
			tc.mutate(&policy)
			err := policy.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, uph.ErrInvalidPolicy) {
				t.Fatalf("expected ErrInvalidPolicy, got %v", err)
			}
		})
	}
}

package config

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type envTestConfig struct {
	Port      int    `env:"STOREFRONT_TEST_PORT" envDefault:"123"`
	Countries string `env:"STOREFRONT_TEST_COUNTRIES" envDefault:"it"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
	if cfg.Countries != "it" {
		t.Fatalf("expected default countries it, got %q", cfg.Countries)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("STOREFRONT_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: []string{}},
		{name: "single", raw: "it", want: []string{"it"}},
		{name: "trims and lowercases", raw: " IT, Sm ,va", want: []string{"it", "sm", "va"}},
		{name: "drops blanks and duplicates", raw: "it,,it, ,en", want: []string{"it", "en"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tc.want, SplitList(tc.raw)); diff != "" {
				t.Fatalf("SplitList(%q) mismatch (-want +got):\n%s", tc.raw, diff)
			}
		})
	}
}

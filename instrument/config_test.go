package instrument

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadConfig(t *testing.T) {
	raw := `
analysis_class: "Lcom/example/Analysis;"
analysis_method: onMethodBegin
strategy: basic_block_tracing
allowlist:
  - "Lcom/example/app/"
denylist:
  - "Lcom/example/app/debug/"
method_index_path: out/methods.csv
num_stats_per_method: 4
`
	path := filepath.Join(t.TempDir(), "instrument.yaml")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Config{
		AnalysisClass:     "Lcom/example/Analysis;",
		AnalysisMethod:    "onMethodBegin",
		Strategy:          BasicBlockTracing,
		Allowlist:         []string{"Lcom/example/app/"},
		Denylist:          []string{"Lcom/example/app/debug/"},
		MethodIndexPath:   "out/methods.csv",
		NumStatsPerMethod: 4,
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	raw := `
analysis_class: "Lcom/example/Analysis;"
analysis_method: onMethodBegin
`
	path := filepath.Join(t.TempDir(), "instrument.yaml")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Strategy != MethodTracing {
		t.Errorf("expected default strategy %q, got %q", MethodTracing, config.Strategy)
	}
	if config.NumStatsPerMethod != 1 {
		t.Errorf("expected one stat slot per method, got %d", config.NumStatsPerMethod)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	raw := `
analysis_class: "Lcom/example/Analysis;"
analysis_methods: [onMethodBegin]
`
	path := filepath.Join(t.TempDir(), "instrument.yaml")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Errorf("expected an error for a misspelled key")
	}
}

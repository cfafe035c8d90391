package instrument

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// The two supported instrumentation strategies.
const (
	MethodTracing     = "method_tracing"
	BasicBlockTracing = "basic_block_tracing"
)

// Config describes one instrumentation run. The analysis class hosts
// the static hook method that instrumented code calls into, plus the
// companion counter storage patched after instrumentation.
type Config struct {
	// AnalysisClass is the internal name of the class holding the
	// hook, e.g. "Lcom/example/Analysis;".
	AnalysisClass string `yaml:"analysis_class"`
	// AnalysisMethod is the simple name of the static hook method.
	AnalysisMethod string `yaml:"analysis_method"`
	// Strategy selects method or basic block level tracing.
	Strategy string `yaml:"strategy"`
	// Allowlist restricts instrumentation to the named class prefixes
	// and fully qualified methods. An empty allowlist admits
	// everything.
	Allowlist []string `yaml:"allowlist"`
	// Denylist excludes class prefixes. It wins over the allowlist.
	Denylist []string `yaml:"denylist"`
	// MethodIndexPath is where the id-to-method report is written.
	// Empty suppresses the report.
	MethodIndexPath string `yaml:"method_index_path"`
	// NumStatsPerMethod is the number of counter slots reserved per
	// instrumented method in the stats array.
	NumStatsPerMethod int `yaml:"num_stats_per_method"`
}

// LoadConfig reads and validates a yaml configuration file.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	if err := yaml.UnmarshalStrict(raw, config); err != nil {
		return nil, fmt.Errorf("instrument: parsing %s: %w", path, err)
	}
	config.applyDefaults()
	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Strategy == "" {
		c.Strategy = MethodTracing
	}
	if c.NumStatsPerMethod == 0 {
		c.NumStatsPerMethod = 1
	}
}

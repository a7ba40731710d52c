// Package reorg holds the run-level configuration and the orchestration
// (Run, Rescan, BuildInventory) that creates each run's caches and settings
// and passes them to every pipeline stage (partition enumeration, PDF
// scanning, planning, rename/dedup, execution, reclassification).
package reorg

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/AlexandruDodita/vinorg/pkg/validator"
)

// Config mirrors the CLI surface described for the reorganizer: source and
// output roots, worker pool size, partition range slicing, and the feature
// toggles that turn optional passes on or off.
type Config struct {
	SourceRoot string `yaml:"sourceRoot" mapstructure:"sourceRoot"`
	OutputRoot string `yaml:"outputRoot" mapstructure:"outputRoot"`
	ExcelPath  string `yaml:"excelPath" mapstructure:"excelPath"`

	Execute bool `yaml:"execute" mapstructure:"execute"`
	Workers int  `yaml:"workers" mapstructure:"workers"`

	RangeStart int `yaml:"rangeStart" mapstructure:"rangeStart"`
	RangeEnd   int `yaml:"rangeEnd" mapstructure:"rangeEnd"`

	NoPDF         bool `yaml:"noPdf" mapstructure:"noPdf"`
	RenameFiles   bool `yaml:"renameFiles" mapstructure:"renameFiles"`
	NoContentScan bool `yaml:"noContentScan" mapstructure:"noContentScan"`
	Rescan        bool `yaml:"rescan" mapstructure:"rescan"`
	InventoryOnly bool `yaml:"inventoryOnly" mapstructure:"inventoryOnly"`

	OCR OcrSettings `yaml:"ocr" mapstructure:"ocr"`
}

// OcrSettings controls when the OCR fallback engages. TextTimeoutS and
// OcrTimeoutS are loaded (defaults 120 and 30) but no stage reads them: the
// per-PDF wall-clock budgets come from pdfscan's own fixed values.
type OcrSettings struct {
	Enabled      bool `yaml:"enabled" mapstructure:"enabled"`
	RescueOnly   bool `yaml:"rescueOnly" mapstructure:"rescueOnly"`
	TextTimeoutS int  `yaml:"textTimeoutSeconds" mapstructure:"textTimeoutSeconds"`
	OcrTimeoutS  int  `yaml:"ocrTimeoutSeconds" mapstructure:"ocrTimeoutSeconds"`
}

// Manager loads and validates a Config from an optional YAML file, overlaid
// with environment variables and in-code defaults, the same way the
// teacher's config.Manager loads CleanupConfig.
type Manager struct {
	v    *viper.Viper
	path string
}

// NewManager creates a configuration manager reading from path. An empty
// path means "defaults only, no file".
func NewManager(path string) *Manager {
	return &Manager{v: viper.New(), path: path}
}

// Load returns a Config populated with defaults, then overridden by the
// config file (if it exists) and environment variables prefixed VINORG_.
func (m *Manager) Load() (*Config, error) {
	m.setDefaults()
	m.v.SetEnvPrefix("VINORG")
	m.v.AutomaticEnv()

	if m.path != "" {
		if _, err := os.Stat(m.path); err == nil {
			m.v.SetConfigFile(m.path)
			m.v.SetConfigType("yaml")
			if err := m.v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func (m *Manager) setDefaults() {
	m.v.SetDefault("workers", runtime.NumCPU())
	m.v.SetDefault("rangeStart", 0)
	m.v.SetDefault("rangeEnd", 0)
	m.v.SetDefault("ocr.textTimeoutSeconds", 120)
	m.v.SetDefault("ocr.ocrTimeoutSeconds", 30)
}

// Validate enforces the pre-flight checks whose failure is FatalConfig: a
// readable source root and a usable output root are both mandatory.
func (c *Config) Validate() error {
	if c.SourceRoot == "" {
		return fmt.Errorf("source root is required")
	}
	if err := validator.ValidatePath(c.SourceRoot); err != nil {
		return fmt.Errorf("source root %q: %w", c.SourceRoot, err)
	}
	info, err := os.Stat(c.SourceRoot)
	if err != nil {
		return fmt.Errorf("source root %q: %w", c.SourceRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source root %q is not a directory", c.SourceRoot)
	}
	if c.OutputRoot == "" {
		return fmt.Errorf("output root is required")
	}
	if err := validator.ValidatePath(c.OutputRoot); err != nil {
		return fmt.Errorf("output root %q: %w", c.OutputRoot, err)
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.ExcelPath == "" {
		c.ExcelPath = filepath.Join(c.OutputRoot, "inventory.xlsx")
	}
	return nil
}

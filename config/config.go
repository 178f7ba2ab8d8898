// Package config loads the service's scan tuning from config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root of config.yaml. Keys that are absent keep their
// defaults.
type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Templates TemplatesConfig `yaml:"templates"`
	Icons     IconsConfig     `yaml:"icons"`
	Matching  MatchingConfig  `yaml:"matching"`
	Scan      ScanConfig      `yaml:"scan"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Debug     DebugConfig     `yaml:"debug"`
}

type TemplatesConfig struct {
	// Glob is resolved relative to the data directory when not absolute.
	Glob      string    `yaml:"glob"`
	Scales    []float64 `yaml:"scales"`
	Rotations []float64 `yaml:"rotations"`
}

type IconsConfig struct {
	Dir       string  `yaml:"dir"`
	Threshold float64 `yaml:"threshold"`
	// ResourceDir is the same icon set inside the MaaFramework resource image
	// folder. Empty keeps icon matching in process.
	ResourceDir string `yaml:"resource_dir"`
}

type ValidatorConfig struct {
	HalfWidth   int     `yaml:"half_width"`
	MinFraction float64 `yaml:"min_fraction"`
	// ClampedArea divides by the clipped window instead of the nominal one.
	ClampedArea bool `yaml:"clamped_area"`
}

type MatchingConfig struct {
	AcceptThreshold float64         `yaml:"accept_threshold"`
	MaxOverlap      float64         `yaml:"max_overlap"`
	Validator       ValidatorConfig `yaml:"validator"`
}

// ExpandConfig grows a candidate rectangle into the tooltip region.
type ExpandConfig struct {
	Left  int `yaml:"left"`
	Right int `yaml:"right"`
	Below int `yaml:"below"`
}

type ScanConfig struct {
	SettleDelay   time.Duration `yaml:"settle_delay"`
	Expand        ExpandConfig  `yaml:"expand"`
	HoverRadius   int           `yaml:"hover_radius"`
	WindowTitle   string        `yaml:"window_title"`
	SmoothPointer bool          `yaml:"smooth_pointer"`
	// OCRNode is the pipeline OCR node run on the binarised tooltip.
	OCRNode string `yaml:"ocr_node"`
}

type MQTTConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"`
	QoS      byte   `yaml:"qos"`
	Retain   bool   `yaml:"retain"`
}

type DebugConfig struct {
	// DumpDir receives an annotated PNG per scan when set.
	DumpDir string `yaml:"dump_dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Templates: TemplatesConfig{
			Glob:      "refs/*.png",
			Scales:    []float64{1.0},
			Rotations: []float64{0},
		},
		Icons: IconsConfig{
			Dir:         "icons",
			Threshold:   0.85,
			ResourceDir: "AtlasScout/icons",
		},
		Matching: MatchingConfig{
			AcceptThreshold: 0.70,
			MaxOverlap:      0.3,
			Validator: ValidatorConfig{
				HalfWidth:   8,
				MinFraction: 0.08,
			},
		},
		Scan: ScanConfig{
			SettleDelay:   200 * time.Millisecond,
			Expand:        ExpandConfig{Left: 400, Right: 200, Below: 100},
			HoverRadius:   30,
			WindowTitle:   "Path of Exile 2",
			SmoothPointer: true,
			OCRNode:       "AtlasMapTextOCR",
		},
		MQTT: MQTTConfig{
			ClientID: "atlas-scout",
			Topic:    "atlas-scout/observations",
			QoS:      1,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Templates.Glob == "" {
		return fmt.Errorf("templates.glob is required")
	}
	if len(c.Templates.Scales) == 0 {
		return fmt.Errorf("templates.scales must not be empty")
	}
	for i, s := range c.Templates.Scales {
		if s <= 0 {
			return fmt.Errorf("templates.scales[%d] must be positive, got %v", i, s)
		}
	}
	if len(c.Templates.Rotations) == 0 {
		return fmt.Errorf("templates.rotations must not be empty")
	}
	if err := unitInterval("matching.accept_threshold", c.Matching.AcceptThreshold); err != nil {
		return err
	}
	if err := unitInterval("matching.max_overlap", c.Matching.MaxOverlap); err != nil {
		return err
	}
	if err := unitInterval("icons.threshold", c.Icons.Threshold); err != nil {
		return err
	}
	if err := unitInterval("matching.validator.min_fraction", c.Matching.Validator.MinFraction); err != nil {
		return err
	}
	if c.Matching.Validator.HalfWidth <= 0 {
		return fmt.Errorf("matching.validator.half_width must be positive")
	}
	if c.Scan.SettleDelay < 0 {
		return fmt.Errorf("scan.settle_delay must not be negative")
	}
	e := c.Scan.Expand
	if e.Left < 0 || e.Right < 0 || e.Below < 0 {
		return fmt.Errorf("scan.expand values must not be negative")
	}
	if c.Scan.HoverRadius <= 0 {
		return fmt.Errorf("scan.hover_radius must be positive")
	}
	if c.MQTT.Enabled {
		if c.MQTT.Broker == "" {
			return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
		}
		if c.MQTT.Topic == "" {
			return fmt.Errorf("mqtt.topic is required when mqtt is enabled")
		}
		if c.MQTT.QoS > 2 {
			return fmt.Errorf("mqtt.qos must be 0, 1 or 2")
		}
	}
	return nil
}

func unitInterval(key string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be within [0, 1], got %v", key, v)
	}
	return nil
}

// Resolve joins a relative path from the config onto dataDir.
func Resolve(dataDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}

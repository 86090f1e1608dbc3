package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

var (
	Default = Config{
		Common: Common{
			LogLevel:  "info",
			LogFormat: "logfmt",
			HttpAddr:  ":9610",
		},
		Monitor: Monitor{
			Interval: Duration(2 * time.Second),
			Duration: Duration(10 * time.Second),
			Count:    0,
			Format:   "block",
		},
		Tour: Tour{
			Dir:  ".",
			Step: Duration(time.Second),
		},
		Palette: Palette{
			Addr:          ":9611",
			TextSwapDelay: Duration(2 * time.Second),
		},
	}
)

type Config struct {
	Common  Common  `toml:"common"  yaml:"common"  json:"common"`
	Monitor Monitor `toml:"monitor" yaml:"monitor" json:"monitor"`
	Tour    Tour    `toml:"tour"    yaml:"tour"    json:"tour"`
	Palette Palette `toml:"palette" yaml:"palette" json:"palette"`
}

type Common struct {
	LogLevel  string            `toml:"log_level"  yaml:"log_level"  json:"log_level"`
	LogFormat string            `toml:"log_format" yaml:"log_format" json:"log_format"`
	LogFields map[string]string `toml:"log_fields" yaml:"log_fields" json:"log_fields"`
	HttpAddr  string            `toml:"http_addr"  yaml:"http_addr"  json:"http_addr"`
}

type Monitor struct {
	Interval Duration `toml:"interval" yaml:"interval" json:"interval"`
	Duration Duration `toml:"duration" yaml:"duration" json:"duration"`
	Count    int      `toml:"count"    yaml:"count"    json:"count"`
	Format   string   `toml:"format"   yaml:"format"   json:"format"`
}

type Tour struct {
	Dir  string   `toml:"dir"  yaml:"dir"  json:"dir"`
	Self string   `toml:"self" yaml:"self" json:"self"`
	Step Duration `toml:"step" yaml:"step" json:"step"`
}

type Palette struct {
	Addr          string   `toml:"addr"            yaml:"addr"            json:"addr"`
	TextSwapDelay Duration `toml:"text_swap_delay" yaml:"text_swap_delay" json:"text_swap_delay"`
}

// ReadConfig reads the configuration file, expanding environment variables
// first. An empty path returns Default.
func ReadConfig(file string) (*Config, error) {
	config := Default
	if file == "" {
		return &config, nil
	}

	buf, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	buf = []byte(os.ExpandEnv(string(buf)))

	switch e := filepath.Ext(file); e {
	case ".json":
		if err := json.Unmarshal(buf, &config); err != nil {
			return &config, err
		}
	case ".toml":
		if err := toml.Unmarshal(buf, &config); err != nil {
			return &config, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(buf, &config); err != nil {
			return &config, err
		}
	default:
		return &config, fmt.Errorf("unknown configuration file extension: %v", e)
	}

	if err := config.Validate(); err != nil {
		return &config, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive, got %v", c.Monitor.Interval)
	}
	if c.Monitor.Count < 0 {
		return fmt.Errorf("monitor.count must not be negative, got %v", c.Monitor.Count)
	}
	if c.Monitor.Duration < 0 {
		return fmt.Errorf("monitor.duration must not be negative, got %v", c.Monitor.Duration)
	}
	switch c.Monitor.Format {
	case "block", "line":
	default:
		return fmt.Errorf("unknown monitor.format: %v", c.Monitor.Format)
	}
	if c.Tour.Step < 0 {
		return fmt.Errorf("tour.step must not be negative, got %v", c.Tour.Step)
	}
	return nil
}

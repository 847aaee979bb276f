package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/isplogger/internal/domain"
	"github.com/hamed0406/isplogger/internal/logging"
	"github.com/hamed0406/isplogger/internal/scheduler"
)

// EnvPrefix is prepended to every environment variable, e.g. ISPLOGGER_HOST.
const EnvPrefix = "ISPLOGGER"

var ErrInvalidConfig = scheduler.ErrInvalidConfig

type Config struct {
	Interval   Seconds `yaml:"interval"`
	Iterations int     `yaml:"iterations"`
	Host       string  `yaml:"host"`
	Port       int     `yaml:"port"`
	Timeout    Seconds `yaml:"timeout"`
	RecordPath string  `yaml:"record_path" split_words:"true"` // CSV record file, empty disables
	LogLevel   string  `yaml:"log_level" split_words:"true"`
	LogDir     string  `yaml:"log_dir" split_words:"true"` // rotating text log, empty disables
}

func Default() Config {
	return Config{
		Interval:   Seconds(10 * time.Second),
		Iterations: -1,
		Host:       "8.8.8.8",
		Port:       53,
		Timeout:    Seconds(3 * time.Second),
		LogLevel:   "info",
	}
}

// Load builds a Config from, in increasing priority: defaults, the YAML file
// named by --config, the .env file and process environment, then flags.
// pflag.ErrHelp is returned as is when -h/--help was given.
func Load(name string, args []string) (Config, error) {
	fl := Default()
	var configPath, envFile string

	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.VarP(&fl.Interval, "interval", "i", "seconds between probe starts (e.g. 10, 0.5, 1m)")
	flags.IntVarP(&fl.Iterations, "iterations", "n", fl.Iterations, "number of samples, <= 0 runs until interrupted")
	flags.StringVar(&fl.Host, "host", fl.Host, "host to probe")
	flags.IntVarP(&fl.Port, "port", "p", fl.Port, "TCP port to probe")
	flags.VarP(&fl.Timeout, "timeout", "t", "connect timeout, must be less than the interval")
	flags.StringVarP(&fl.RecordPath, "record", "r", fl.RecordPath, "append UP/DOWN rows to this CSV file")
	flags.StringVar(&fl.LogLevel, "log-level", fl.LogLevel, "debug, info, warning, error or a numeric level")
	flags.StringVar(&fl.LogDir, "log-dir", fl.LogDir, "also write a rotating text log into this directory")
	flags.StringVar(&configPath, "config", "", "YAML configuration file")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return Config{}, err
		}
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := Default()
	if configPath != "" {
		if err := loadYAML(configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: env file %s: %v", ErrInvalidConfig, envFile, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "interval":
			cfg.Interval = fl.Interval
		case "iterations":
			cfg.Iterations = fl.Iterations
		case "host":
			cfg.Host = fl.Host
		case "port":
			cfg.Port = fl.Port
		case "timeout":
			cfg.Timeout = fl.Timeout
		case "record":
			cfg.RecordPath = fl.RecordPath
		case "log-level":
			cfg.LogLevel = fl.LogLevel
		case "log-dir":
			cfg.LogDir = fl.LogDir
		}
	})

	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read config file: %v", ErrInvalidConfig, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Sampler().Validate(); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) Sampler() scheduler.Config {
	return scheduler.Config{
		Interval:   c.Interval.Duration(),
		Timeout:    c.Timeout.Duration(),
		Iterations: c.Iterations,
		Target:     domain.Target{Host: strings.TrimSpace(c.Host), Port: c.Port},
	}
}

// Seconds is a duration that also accepts a bare number of seconds.
type Seconds time.Duration

func ParseSeconds(s string) (Seconds, error) {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Seconds(f * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: want seconds or a value like 1m30s", s)
	}
	return Seconds(d), nil
}

func (s Seconds) Duration() time.Duration { return time.Duration(s) }

func (s Seconds) String() string { return time.Duration(s).String() }

func (s *Seconds) Set(v string) error {
	d, err := ParseSeconds(v)
	if err != nil {
		return err
	}
	*s = d
	return nil
}

func (s *Seconds) Type() string { return "duration" }

func (s *Seconds) UnmarshalText(b []byte) error { return s.Set(string(b)) }

func (s *Seconds) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", n.Line)
	}
	return s.Set(n.Value)
}

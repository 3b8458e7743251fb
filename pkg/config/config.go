package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/bussin/bussin/pkg/util"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// AppConfig is the application configuration shared by every service.
type AppConfig struct {
	Provider ProviderConfig `yaml:"provider"`

	Timezone string `yaml:"timezone" validate:"required"`

	// MaxArrivals is the number of doorkomsten asked from the provider per stop
	MaxArrivals int `yaml:"max_arrivals" validate:"gte=1,lte=1000"`

	// ArrivalWindow and CacheExpiry are ISO-8601 durations
	ArrivalWindow string `yaml:"arrival_window" validate:"omitempty,startswith=P"`
	CacheExpiry   string `yaml:"cache_expiry" validate:"required,startswith=P"`

	TransformsDirectory string `yaml:"transforms_directory"`

	Prefetch PrefetchConfig `yaml:"prefetch"`
}

type ProviderConfig struct {
	BaseURL string `yaml:"base_url" validate:"required,url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout" validate:"required,startswith=P"`
}

type PrefetchConfig struct {
	Consumers int `yaml:"consumers" validate:"gte=1"`
	BatchSize int `yaml:"batch_size" validate:"gte=1"`

	// Interval is how often recently requested stops are queued, Lookback how
	// long a stop counts as recently requested
	Interval string `yaml:"interval" validate:"required,startswith=P"`
	Lookback string `yaml:"lookback" validate:"required,startswith=P"`
}

func Default() AppConfig {
	return AppConfig{
		Provider: ProviderConfig{
			BaseURL: "https://api.delijn.be/DLKernOpenData/api/v1",
			Timeout: "PT10S",
		},
		Timezone:            "Europe/Brussels",
		MaxArrivals:         200,
		CacheExpiry:         "PT30S",
		TransformsDirectory: "data/transforms",
		Prefetch: PrefetchConfig{
			Consumers: 2,
			BatchSize: 20,
			Interval:  "PT20S",
			Lookback:  "PT15M",
		},
	}
}

// Load reads the yaml file at path on top of the defaults, applies the
// BUSSIN_ environment overrides and validates the result. A missing file is
// not an error.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("decode config %s: %w", path, err)
			}
		}
	}

	if err := cfg.ApplyEnvironment(util.GetEnvironmentVariables()); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyEnvironment overrides fields from BUSSIN_ variables in env.
func (c *AppConfig) ApplyEnvironment(env map[string]string) error {
	overrides := map[string]*string{
		"PROVIDER_BASE_URL":    &c.Provider.BaseURL,
		"PROVIDER_API_KEY":     &c.Provider.APIKey,
		"PROVIDER_TIMEOUT":     &c.Provider.Timeout,
		"TIMEZONE":             &c.Timezone,
		"ARRIVAL_WINDOW":       &c.ArrivalWindow,
		"CACHE_EXPIRY":         &c.CacheExpiry,
		"TRANSFORMS_DIRECTORY": &c.TransformsDirectory,
		"PREFETCH_INTERVAL":    &c.Prefetch.Interval,
		"PREFETCH_LOOKBACK":    &c.Prefetch.Lookback,
	}

	for name, field := range overrides {
		if value := env[util.EnvironmentPrefix+name]; value != "" {
			*field = value
		}
	}

	integerOverrides := map[string]*int{
		"MAX_ARRIVALS":        &c.MaxArrivals,
		"PREFETCH_CONSUMERS":  &c.Prefetch.Consumers,
		"PREFETCH_BATCH_SIZE": &c.Prefetch.BatchSize,
	}

	for name, field := range integerOverrides {
		value := env[util.EnvironmentPrefix+name]
		if value == "" {
			continue
		}

		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s%s: %w", util.EnvironmentPrefix, name, err)
		}
		*field = parsed
	}

	return nil
}

func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	for name, value := range map[string]string{
		"cache_expiry":      c.CacheExpiry,
		"provider.timeout":  c.Provider.Timeout,
		"arrival_window":    c.ArrivalWindow,
		"prefetch.interval": c.Prefetch.Interval,
		"prefetch.lookback": c.Prefetch.Lookback,
	} {
		if value == "" {
			continue
		}
		if _, err := util.ParseISODuration(value, time.Now()); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

func (c *AppConfig) Location() (*time.Location, error) {
	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}

	return location, nil
}

func (c *AppConfig) CacheExpiryDuration() time.Duration {
	duration, _ := util.ParseISODuration(c.CacheExpiry, time.Now())
	return duration
}

func (c *AppConfig) ProviderTimeout() time.Duration {
	duration, _ := util.ParseISODuration(c.Provider.Timeout, time.Now())
	return duration
}

// ArrivalWindowDuration is zero when no window is configured.
func (c *AppConfig) ArrivalWindowDuration() time.Duration {
	if c.ArrivalWindow == "" {
		return 0
	}

	duration, _ := util.ParseISODuration(c.ArrivalWindow, time.Now())
	return duration
}

func (c *AppConfig) PrefetchInterval() time.Duration {
	duration, _ := util.ParseISODuration(c.Prefetch.Interval, time.Now())
	return duration
}

func (c *AppConfig) PrefetchLookback() time.Duration {
	duration, _ := util.ParseISODuration(c.Prefetch.Lookback, time.Now())
	return duration
}

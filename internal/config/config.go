package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/irenelivia/DakarNowcasting/internal/domain"
)

// Config holds all service settings, populated from COLDPOOL_* environment
// variables with documented defaults.
type Config struct {
	Station     string
	SeriesPath  string
	RunInterval time.Duration // zero means run detection once and idle

	Detection Detection

	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	StoreEnabled bool
	StorePath    string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Detection mirrors domain.Params so thresholds are tunable per deployment.
type Detection struct {
	DropThreshold          float64
	DropWindow             time.Duration
	PreWindow              time.Duration
	PostWindow             time.Duration
	PassageThreshold       float64
	EventAvailability      float64
	GlobalAvailability     float64
	WarnEventAvailability  bool
	WarnGlobalAvailability bool
}

// Params converts the configured thresholds to engine parameters.
func (d Detection) Params() domain.Params {
	return domain.Params{
		DropThreshold:          d.DropThreshold,
		DropWindow:             d.DropWindow,
		PreWindow:              d.PreWindow,
		PostWindow:             d.PostWindow,
		PassageThreshold:       d.PassageThreshold,
		EventAvailability:      d.EventAvailability,
		GlobalAvailability:     d.GlobalAvailability,
		WarnEventAvailability:  d.WarnEventAvailability,
		WarnGlobalAvailability: d.WarnGlobalAvailability,
	}
}

// Load reads configuration from the environment, applying defaults where unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COLDPOOL")
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Station:     v.GetString("station"),
		SeriesPath:  v.GetString("series_path"),
		RunInterval: v.GetDuration("run_interval"),

		Detection: Detection{
			DropThreshold:          v.GetFloat64("drop_threshold"),
			DropWindow:             v.GetDuration("drop_window"),
			PreWindow:              v.GetDuration("pre_window"),
			PostWindow:             v.GetDuration("post_window"),
			PassageThreshold:       v.GetFloat64("passage_threshold"),
			EventAvailability:      v.GetFloat64("event_availability"),
			GlobalAvailability:     v.GetFloat64("global_availability"),
			WarnEventAvailability:  v.GetBool("warn_event_availability"),
			WarnGlobalAvailability: v.GetBool("warn_global_availability"),
		},

		KafkaEnabled: v.GetBool("kafka_enabled"),
		KafkaBrokers: splitBrokers(v.GetString("kafka_brokers")),
		KafkaTopic:   v.GetString("kafka_topic"),

		StoreEnabled: v.GetBool("store_enabled"),
		StorePath:    v.GetString("store_path"),

		HTTPAddr:        v.GetString("http_addr"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("station", "dakar")
	v.SetDefault("series_path", "")
	v.SetDefault("run_interval", time.Duration(0))

	p := domain.DefaultParams()
	v.SetDefault("drop_threshold", p.DropThreshold)
	v.SetDefault("drop_window", p.DropWindow)
	v.SetDefault("pre_window", p.PreWindow)
	v.SetDefault("post_window", p.PostWindow)
	v.SetDefault("passage_threshold", p.PassageThreshold)
	v.SetDefault("event_availability", p.EventAvailability)
	v.SetDefault("global_availability", p.GlobalAvailability)
	v.SetDefault("warn_event_availability", p.WarnEventAvailability)
	v.SetDefault("warn_global_availability", p.WarnGlobalAvailability)

	v.SetDefault("kafka_enabled", false)
	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_topic", "cold-pool-reports")

	v.SetDefault("store_enabled", false)
	v.SetDefault("store_path", "coldpool.db")

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("shutdown_timeout", 10*time.Second)
}

func (c *Config) validate() error {
	if c.SeriesPath == "" {
		return errors.New("COLDPOOL_SERIES_PATH is required")
	}
	if c.Detection.DropThreshold >= 0 {
		return fmt.Errorf("COLDPOOL_DROP_THRESHOLD must be negative, got %g", c.Detection.DropThreshold)
	}
	if c.Detection.PassageThreshold >= 0 {
		return fmt.Errorf("COLDPOOL_PASSAGE_THRESHOLD must be negative, got %g", c.Detection.PassageThreshold)
	}
	if c.Detection.PassageThreshold < c.Detection.DropThreshold {
		return fmt.Errorf("COLDPOOL_PASSAGE_THRESHOLD (%g) must not be stronger than COLDPOOL_DROP_THRESHOLD (%g)",
			c.Detection.PassageThreshold, c.Detection.DropThreshold)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"COLDPOOL_EVENT_AVAILABILITY", c.Detection.EventAvailability},
		{"COLDPOOL_GLOBAL_AVAILABILITY", c.Detection.GlobalAvailability},
	} {
		if f.value < 0 || f.value > 1 {
			return fmt.Errorf("%s must be a fraction in [0, 1], got %g", f.name, f.value)
		}
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("COLDPOOL_SHUTDOWN_TIMEOUT must be positive")
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return errors.New("COLDPOOL_KAFKA_BROKERS is required when Kafka is enabled")
		}
		if c.KafkaTopic == "" {
			return errors.New("COLDPOOL_KAFKA_TOPIC is required when Kafka is enabled")
		}
	}
	if c.StoreEnabled && c.StorePath == "" {
		return errors.New("COLDPOOL_STORE_PATH is required when the store is enabled")
	}
	return nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the runtime configuration of the application.
type Config struct {
	DataDir    string           `mapstructure:"data_dir"`
	Log        LogConfig        `mapstructure:"log"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Mirror     MirrorConfig     `mapstructure:"mirror"`
	Reports    ReportsConfig    `mapstructure:"reports"`
}

// LogConfig selects the log level and encoder.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SchedulerConfig holds ticker intervals and deferral delays.
type SchedulerConfig struct {
	AlarmTick   time.Duration `mapstructure:"alarm_tick"`
	StateTick   time.Duration `mapstructure:"state_tick"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	StormDelay  time.Duration `mapstructure:"storm_delay"`
	Debounce    time.Duration `mapstructure:"debounce"`
}

// AttendanceConfig tunes the attendance button.
type AttendanceConfig struct {
	RapidPressThreshold time.Duration `mapstructure:"rapid_press_threshold"`
}

// MirrorConfig controls the iCalendar reminder mirror.
type MirrorConfig struct {
	ICSPath string `mapstructure:"ics_path"`
}

// ReportsConfig controls where monthly reports are written.
type ReportsConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from defaults, an optional file and SHIFTBELL_* env vars.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("scheduler.alarm_tick", DefaultAlarmTick)
	v.SetDefault("scheduler.state_tick", DefaultStateTick)
	v.SetDefault("scheduler.settle_delay", DefaultSettleDelay)
	v.SetDefault("scheduler.storm_delay", DefaultStormDelay)
	v.SetDefault("scheduler.debounce", DefaultDebounce)

	v.SetDefault("attendance.rapid_press_threshold", DefaultRapidPressThreshold)

	v.SetDefault("mirror.ics_path", "")
	v.SetDefault("reports.dir", "")
}

// Validate rejects intervals the tickers cannot run with.
func (c *Config) Validate() error {
	if c.Scheduler.AlarmTick <= 0 {
		return fmt.Errorf("scheduler.alarm_tick must be positive")
	}
	if c.Scheduler.StateTick <= 0 {
		return fmt.Errorf("scheduler.state_tick must be positive")
	}
	if c.Scheduler.AlarmTick > DeliveryJitter {
		return fmt.Errorf("scheduler.alarm_tick must not exceed %s or alarms fall outside the delivery window", DeliveryJitter)
	}
	if c.Scheduler.SettleDelay < 0 || c.Scheduler.StormDelay < 0 || c.Scheduler.Debounce < 0 {
		return fmt.Errorf("scheduler delays must not be negative")
	}
	if c.Attendance.RapidPressThreshold < 0 {
		return fmt.Errorf("attendance.rapid_press_threshold must not be negative")
	}
	return nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "console"},
		Scheduler: SchedulerConfig{
			AlarmTick:   DefaultAlarmTick,
			StateTick:   DefaultStateTick,
			SettleDelay: DefaultSettleDelay,
			StormDelay:  DefaultStormDelay,
			Debounce:    DefaultDebounce,
		},
		Attendance: AttendanceConfig{RapidPressThreshold: DefaultRapidPressThreshold},
	}
}

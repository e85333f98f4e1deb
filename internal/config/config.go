/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

// Package config loads and validates the daemon's YAML configuration,
// the same Viper + go-playground/validator combination the teacher uses
// for its own Config/*Conf nesting.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/johanix/tdns-notify/internal/notify"
)

type Config struct {
	Service ServiceConf
	Notify  NotifyConf
	Db      DbConf
	Admin   AdminConf
	Log     LogConf
}

type ServiceConf struct {
	Name    string `validate:"required"`
	Verbose bool
	Debug   bool
}

type NotifyConf struct {
	MaxNotifyNum    int `mapstructure:"max_notify_num"`
	MaxNotifyTryNum int `mapstructure:"max_notify_try_num"`
	NotifyTimeout   int `mapstructure:"notify_timeout_seconds"`
	IdleSleepTime   int `mapstructure:"idle_sleep_time_seconds"`
}

type DbConf struct {
	File string `validate:"required"`
}

type AdminConf struct {
	Address string `mapstructure:"address"`
}

type LogConf struct {
	File string `validate:"required"`
}

// Default returns the configuration defaults as a struct literal; Load
// unmarshals the config file over it, so keys the file omits keep these
// values.
func Default() Config {
	return Config{
		Service: ServiceConf{Name: "tdns-notifyd"},
		Notify: NotifyConf{
			MaxNotifyNum:    notify.DefaultMaxNotifyNum,
			MaxNotifyTryNum: notify.DefaultMaxNotifyTryNum,
			NotifyTimeout:   int(notify.DefaultNotifyTimeout.Seconds()),
			IdleSleepTime:   int(notify.DefaultIdleSleepTime.Seconds()),
		},
		Admin: AdminConf{Address: "127.0.0.1:8531"},
	}
}

// Load reads path into a Config layered over Default, and validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("config: failed to read %q: %v", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to unmarshal %q: %v", path, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("config: validation failed: %v", err)
	}
	return cfg, nil
}

// YAML re-serializes the effective, merged configuration — the same
// re-marshal-for-logging step tdns/parseconfig.go performs on its own
// processed config map, here used to log what was actually loaded
// rather than just the path it came from.
func (c Config) YAML() (string, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("config: failed to marshal effective config: %v", err)
	}
	return string(b), nil
}

// NotifyOpts converts the config's NotifyConf into notify.Config.
func (c Config) NotifyOpts() notify.Config {
	return notify.Config{
		MaxNotifyNum:    c.Notify.MaxNotifyNum,
		MaxNotifyTryNum: c.Notify.MaxNotifyTryNum,
		NotifyTimeout:   time.Duration(c.Notify.NotifyTimeout) * time.Second,
		IdleSleepTime:   time.Duration(c.Notify.IdleSleepTime) * time.Second,
	}
}

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ripienaar/tendactl/tendabeli"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const settingsVersionKey = "settings_version"

// host wires the plugin to its settings file and a coordinator the way a
// printer server would
type host struct {
	settings    *viper.Viper
	coordinator *psuControl
	plugin      *tendabeli.Plugin
	log         *logrus.Logger
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if debug {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

func loadSettings(path string) (*viper.Viper, error) {
	settings := viper.New()
	for k, v := range tendabeli.Defaults() {
		settings.SetDefault(k, v)
	}
	settings.SetDefault(settingsVersionKey, tendabeli.SettingsVersion)

	settings.SetConfigFile(path)
	settings.SetConfigType("yaml")

	err := settings.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read settings %s: %w", path, err)
		}
	}

	return settings, nil
}

func newHost() (*host, error) {
	log := newLogger()

	settings, err := loadSettings(configFile)
	if err != nil {
		return nil, err
	}

	current := settings.GetInt(settingsVersionKey)
	if current < tendabeli.SettingsVersion {
		tendabeli.Migrate(tendabeli.SettingsVersion, current)
		settings.Set(settingsVersionKey, tendabeli.SettingsVersion)
	}

	if address != "" {
		settings.Set("address", address)
	}

	plugin, err := tendabeli.New(settings, tendabeli.WithLogger(log))
	if err != nil {
		return nil, err
	}

	h := &host{
		settings:    settings,
		coordinator: newPSUControl(log),
		plugin:      plugin,
		log:         log,
	}

	start(plugin, h.coordinator)

	return h, nil
}

type lifecycle interface {
	SettingsInitialized()
	Startup(tendabeli.Registrar)
}

// start runs the plugin hooks in the order a printer server does, settings first
func start(p lifecycle, registrar tendabeli.Registrar) {
	p.SettingsInitialized()
	p.Startup(registrar)
}

// saveSettings hands data to the plugin and persists the result
func (h *host) saveSettings(data map[string]any) error {
	err := h.plugin.SettingsSave(data)
	if err != nil {
		return err
	}

	h.settings.Set(settingsVersionKey, tendabeli.SettingsVersion)

	err = os.MkdirAll(filepath.Dir(configFile), 0700)
	if err != nil {
		return fmt.Errorf("could not create settings directory: %w", err)
	}

	err = h.settings.WriteConfigAs(configFile)
	if err != nil {
		return fmt.Errorf("could not save settings %s: %w", configFile, err)
	}

	h.log.Debugf("Saved settings to %s", configFile)

	return nil
}

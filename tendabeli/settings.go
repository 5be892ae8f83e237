package tendabeli

import (
	"fmt"
)

// SettingsVersion is the settings format version persisted by the host
const SettingsVersion = 1

const keyAddress = "address"

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindFloat
	kindBool
)

// settingField declares one persisted setting and the accessor used to read it
type settingField struct {
	key  string
	kind fieldKind
	def  any
	set  func(c *Config, v any)
}

var schema = []settingField{
	{key: keyAddress, kind: kindString, def: "", set: func(c *Config, v any) { c.Address = v.(string) }},
}

// Config is the in memory copy of the plugin settings
type Config struct {
	Address string // Device host name or IP address
}

// Defaults are the settings the host initializes its store with
func Defaults() map[string]any {
	defaults := make(map[string]any, len(schema))
	for _, f := range schema {
		defaults[f.key] = f.def
	}

	return defaults
}

// Migrate upgrades settings persisted with an older version, version 1 is the only one
func Migrate(target int, current int) {}

func readSetting(store SettingsStore, f settingField) any {
	switch f.kind {
	case kindInt:
		return store.GetInt(f.key)
	case kindFloat:
		return store.GetFloat64(f.key)
	case kindBool:
		return store.GetBool(f.key)
	default:
		return store.GetString(f.key)
	}
}

// Reload reads all settings from the store, it has to be called after every save
func (p *Plugin) Reload() {
	var cfg Config

	for _, f := range schema {
		v := readSetting(p.store, f)
		f.set(&cfg, v)
		p.log.Debugf("%s: %v", f.key, v)
	}

	p.config = cfg
}

// Config is the currently loaded configuration
func (p *Plugin) Config() Config {
	return p.config
}

// SettingsInitialized is called by the host once settings are loaded and migrated
func (p *Plugin) SettingsInitialized() {
	p.Reload()
}

// SettingsSave stores known keys from data and reloads the configuration
func (p *Plugin) SettingsSave(data map[string]any) error {
	for _, f := range schema {
		v, ok := data[f.key]
		if !ok {
			continue
		}

		if err := checkKind(f, v); err != nil {
			return err
		}
	}

	for _, f := range schema {
		if v, ok := data[f.key]; ok {
			p.store.Set(f.key, v)
		}
	}

	p.Reload()

	return nil
}

func checkKind(f settingField, v any) error {
	var ok bool

	switch f.kind {
	case kindInt:
		_, ok = v.(int)
	case kindFloat:
		_, ok = v.(float64)
	case kindBool:
		_, ok = v.(bool)
	default:
		_, ok = v.(string)
	}

	if !ok {
		return fmt.Errorf("invalid value for setting %s: %v", f.key, v)
	}

	return nil
}

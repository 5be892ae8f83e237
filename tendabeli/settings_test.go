package tendabeli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, map[string]any{"address": ""}, Defaults())
	assert.Equal(t, 1, SettingsVersion)
}

var _ SettingsStore = (*viper.Viper)(nil)

func TestReloadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(configPath, []byte("address: 192.168.1.30\n"), 0644)
	require.NoError(t, err)

	store := viper.New()
	for k, v := range Defaults() {
		store.SetDefault(k, v)
	}
	store.SetConfigFile(configPath)
	require.NoError(t, store.ReadInConfig())

	p, _, _ := newTestPlugin(t, "", &stubDevice{})
	p.store = store

	assert.Equal(t, "", p.Config().Address)
	p.SettingsInitialized()
	assert.Equal(t, "192.168.1.30", p.Config().Address)
}

func TestReloadDefaults(t *testing.T) {
	store := viper.New()
	for k, v := range Defaults() {
		store.SetDefault(k, v)
	}

	p, err := New(store)
	require.NoError(t, err)
	p.Reload()

	assert.Equal(t, Config{}, p.Config())
}

func TestSettingsSave(t *testing.T) {
	dev := &stubDevice{}
	p, _, store := newTestPlugin(t, "192.168.1.20", dev)

	err := p.SettingsSave(map[string]any{"address": "192.168.1.40", "unrelated": true})
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.40", p.Config().Address)
	assert.Equal(t, "192.168.1.40", store.GetString("address"))
	assert.False(t, store.IsSet("unrelated"))

	p.QueryState()
	reqs := dev.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "http://192.168.1.40:5000/getSta", reqs[0].URL)
}

func TestSettingsSaveRejectsWrongType(t *testing.T) {
	p, _, store := newTestPlugin(t, "192.168.1.20", &stubDevice{})

	err := p.SettingsSave(map[string]any{"address": 12})
	assert.EqualError(t, err, "invalid value for setting address: 12")
	assert.Equal(t, "192.168.1.20", store.GetString("address"))
	assert.Equal(t, "192.168.1.20", p.Config().Address)
}

func TestSettingsSaveIsAllOrNothing(t *testing.T) {
	saved := schema
	schema = append([]settingField{}, schema...)
	schema = append(schema, settingField{key: "port", kind: kindInt, def: 5000, set: func(*Config, any) {}})
	t.Cleanup(func() { schema = saved })

	p, _, store := newTestPlugin(t, "192.168.1.20", &stubDevice{})

	err := p.SettingsSave(map[string]any{"address": "192.168.1.40", "port": "5001"})
	assert.EqualError(t, err, "invalid value for setting port: 5001")
	assert.Equal(t, "192.168.1.20", store.GetString("address"))
	assert.False(t, store.IsSet("port"))
	assert.Equal(t, "192.168.1.20", p.Config().Address)
}

func TestReadSettingKinds(t *testing.T) {
	store := viper.New()
	store.Set("port", "5001")
	store.Set("ratio", "0.5")
	store.Set("enabled", "true")
	store.Set("name", "plug")

	assert.Equal(t, 5001, readSetting(store, settingField{key: "port", kind: kindInt}))
	assert.Equal(t, 0.5, readSetting(store, settingField{key: "ratio", kind: kindFloat}))
	assert.Equal(t, true, readSetting(store, settingField{key: "enabled", kind: kindBool}))
	assert.Equal(t, "plug", readSetting(store, settingField{key: "name", kind: kindString}))
}

func TestCheckKind(t *testing.T) {
	assert.NoError(t, checkKind(settingField{key: "a", kind: kindString}, "x"))
	assert.NoError(t, checkKind(settingField{key: "a", kind: kindInt}, 1))
	assert.NoError(t, checkKind(settingField{key: "a", kind: kindFloat}, 1.5))
	assert.NoError(t, checkKind(settingField{key: "a", kind: kindBool}, false))
	assert.Error(t, checkKind(settingField{key: "a", kind: kindBool}, "false"))
	assert.Error(t, checkKind(settingField{key: "a", kind: kindInt}, 1.5))
}

// Package tendabeli controls a Tenda Beli smart plug that switches printer
// power on behalf of a PSU control coordinator.
package tendabeli

import (
	"encoding/json"
)

// PowerControllable is the set of operations a PSU control coordinator
// invokes on a registered plugin
type PowerControllable interface {
	TurnOn()
	TurnOff()
	QueryState() bool
}

// Registrar is the plugin registration capability of a PSU control coordinator
type Registrar interface {
	RegisterPlugin(PowerControllable)
}

// SettingsStore is the host owned settings persistence, *viper.Viper satisfies it
type SettingsStore interface {
	GetString(key string) string
	GetInt(key string) int
	GetFloat64(key string) float64
	GetBool(key string) bool
	Set(key string, value any)
}

// setStateRequest is the body posted to /setSta
type setStateRequest struct {
	Status int `json:"status"` // 1 to switch on, 0 to switch off
}

// setStateResponse is returned from /setSta
type setStateResponse struct {
	Status json.RawMessage `json:"status"` // Relay state after the change
}

// getStateResponse is returned from /getSta
type getStateResponse struct {
	Data *struct {
		Status json.RawMessage `json:"status"` // Current relay state
	} `json:"data"`
}

// UpdateInfo describes where a software update check finds new releases
type UpdateInfo struct {
	DisplayName    string `json:"displayName"`
	DisplayVersion string `json:"displayVersion"`
	Type           string `json:"type"`
	User           string `json:"user"`
	Repo           string `json:"repo"`
	Current        string `json:"current"`
	Pip            string `json:"pip"`
}

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/choria-io/fisk"
	"github.com/dustin/go-humanize"
	"github.com/ripienaar/tendactl/tendabeli"
)

var (
	version    = "0.1.0"
	configFile string
	address    string
	debug      bool
	jsonFormat bool
	newAddress string
)

func main() {
	app := fisk.New("tendactl", "Controls printer power through Tenda Beli Smart Plugs")
	app.Version(version)

	app.Flag("config", "Settings file").Short('c').Envar("CONFIG").Default(defaultConfigFile()).StringVar(&configFile)
	app.Flag("address", "Device IP address, overrides the saved address").Short('A').Envar("ADDRESS").StringVar(&address)
	app.Flag("debug", "Log debug information").Envar("DEBUG").UnNegatableBoolVar(&debug)

	app.Command("on", "Turns the printer on").Action(onAction)
	app.Command("off", "Turns the printer off").Action(offAction)

	state := app.Command("state", "Shows the printer power state").Action(stateAction)
	state.Flag("json", "Produce JSON output").UnNegatableBoolVar(&jsonFormat)

	configure := app.Command("configure", "Saves the device address").Action(configureAction)
	configure.Arg("address", "Device IP address or host name").Required().StringVar(&newAddress)

	app.Command("info", "Shows plugin information").Action(infoAction)

	app.MustParseWithUsage(os.Args[1:])
}

func defaultConfigFile() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "tendactl.yaml"
		}
		dir = filepath.Join(home, ".config")
	}

	return filepath.Join(dir, "tendactl", "config.yaml")
}

func onAction(_ *fisk.ParseContext) error {
	h, err := newHost()
	if err != nil {
		return err
	}

	err = h.coordinator.TurnOn()
	if err != nil {
		return err
	}

	on, err := h.coordinator.QueryState()
	if err != nil {
		return err
	}
	if !on {
		return fmt.Errorf("device is not on")
	}

	fmt.Println("Device turned on")

	return nil
}

func offAction(_ *fisk.ParseContext) error {
	h, err := newHost()
	if err != nil {
		return err
	}

	err = h.coordinator.TurnOff()
	if err != nil {
		return err
	}

	on, err := h.coordinator.QueryState()
	if err != nil {
		return err
	}
	if on {
		return fmt.Errorf("device is on")
	}

	fmt.Println("Device turned off")

	return nil
}

func stateAction(_ *fisk.ParseContext) error {
	h, err := newHost()
	if err != nil {
		return err
	}

	on, err := h.coordinator.QueryState()
	if err != nil {
		return err
	}

	if jsonFormat {
		j, err := json.MarshalIndent(map[string]any{"address": h.plugin.Config().Address, "is_on": on}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(j))

		return nil
	}

	s := "On"
	if !on {
		s = "Off"
	}
	fmt.Printf("        Power Status: %s\n", s)

	return nil
}

func configureAction(_ *fisk.ParseContext) error {
	h, err := newHost()
	if err != nil {
		return err
	}

	err = h.saveSettings(map[string]any{"address": newAddress})
	if err != nil {
		return err
	}

	fmt.Printf("Saved device address %s to %s\n", h.plugin.Config().Address, configFile)

	return nil
}

func infoAction(_ *fisk.ParseContext) error {
	h, err := newHost()
	if err != nil {
		return err
	}

	nfo := tendabeli.UpdateInformation(version)[tendabeli.Identifier]

	fmt.Printf("%s version %s\n", nfo.DisplayName, nfo.DisplayVersion)
	fmt.Println()
	fmt.Println("Plugin Information")
	fmt.Println()
	fmt.Printf("          Identifier: %s\n", tendabeli.Identifier)
	fmt.Printf("  Registered Plugins: %d\n", h.coordinator.Registered())
	fmt.Printf("    Settings Version: %d\n", tendabeli.SettingsVersion)
	fmt.Printf("       Settings File: %s\n", configFile)

	saved := "never"
	if st, err := os.Stat(configFile); err == nil {
		saved = humanize.Time(st.ModTime())
	}
	fmt.Printf("      Settings Saved: %s\n", saved)

	addr := h.plugin.Config().Address
	if addr == "" {
		addr = "not configured"
	}
	fmt.Printf("      Device Address: %s\n", addr)

	fmt.Println()
	fmt.Println("Updates Information")
	fmt.Println()
	fmt.Printf("          Check Type: %s\n", nfo.Type)
	fmt.Printf("          Repository: %s/%s\n", nfo.User, nfo.Repo)
	fmt.Printf("             Archive: %s\n", nfo.Pip)

	return nil
}

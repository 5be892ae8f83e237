package tendabeli

// Identifier is the plugin identifier used by the host and the update check
const Identifier = "psucontrol_tendabeli"

// DisplayName is the human readable plugin name
const DisplayName = "PSU Control - Tenda Beli"

// Startup registers the plugin with the PSU control coordinator, a nil
// registrar means the installed coordinator cannot accept registrations
func (p *Plugin) Startup(registrar Registrar) {
	if registrar == nil {
		p.log.Warn("The version of PSUControl that is installed does not support plugin registration.")
		return
	}

	p.log.Debug("Registering plugin with PSUControl")
	registrar.RegisterPlugin(p)
}

// UpdateInformation is the descriptor handed to the software update check
func UpdateInformation(version string) map[string]UpdateInfo {
	return map[string]UpdateInfo{
		Identifier: {
			DisplayName:    DisplayName,
			DisplayVersion: version,
			Type:           "github_release",
			User:           "jgroman",
			Repo:           "OctoPrint-PSUControl-TendaBeli",
			Current:        version,
			Pip:            "https://github.com/jgroman/OctoPrint-PSUControl-TendaBeli/archive/{target_version}.zip",
		},
	}
}

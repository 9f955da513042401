package mail

import "github.com/mileusna/useragent"

type DeviceInfo struct {
	Browser    string
	OS         string
	Device     string
	DeviceType string
}

// ParseDevice turns a User-Agent header into display strings.
func ParseDevice(userAgent string) DeviceInfo {
	if userAgent == "" {
		return DeviceInfo{
			Browser:    "Unknown Browser",
			OS:         "Unknown OS",
			Device:     "Unknown Device",
			DeviceType: "Unknown",
		}
	}

	ua := useragent.Parse(userAgent)

	deviceType := "Desktop"
	if ua.Mobile {
		deviceType = "Mobile"
	} else if ua.Tablet {
		deviceType = "Tablet"
	} else if ua.Bot {
		deviceType = "Bot"
	}

	browser := "Unknown Browser"
	if ua.Name != "" {
		browser = ua.Name
		if ua.Version != "" {
			browser += " " + ua.Version
		}
	}

	os := "Unknown OS"
	if ua.OS != "" {
		os = ua.OS
		if ua.OSVersion != "" {
			os += " " + ua.OSVersion
		}
	}

	device := ua.Device
	if device == "" {
		switch {
		case ua.Mobile:
			device = "Mobile Device"
		case ua.Tablet:
			device = "Tablet"
		default:
			device = "Desktop Computer"
		}
	}

	return DeviceInfo{
		Browser:    browser,
		OS:         os,
		Device:     device,
		DeviceType: deviceType,
	}
}

package enrichment

import (
	"github.com/mssola/user_agent"
)

const unknown = "unknown"

// UAInfo is the client summary attached to request logs.
type UAInfo struct {
	Browser    string
	OS         string
	DeviceType string
}

func ParseUserAgent(uaString string) *UAInfo {
	if uaString == "" {
		return &UAInfo{Browser: unknown, OS: unknown, DeviceType: unknown}
	}

	ua := user_agent.New(uaString)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = unknown
	}

	os := ua.OS()
	if os == "" {
		os = unknown
	}

	deviceType := "desktop"
	switch {
	case ua.Bot():
		deviceType = "bot"
	case ua.Mobile():
		deviceType = "mobile"
	}

	return &UAInfo{
		Browser:    browser,
		OS:         os,
		DeviceType: deviceType,
	}
}

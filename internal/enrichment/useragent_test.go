package enrichment

import "testing"

func TestParseUserAgent_Empty(t *testing.T) {
	info := ParseUserAgent("")

	if info.Browser != "unknown" || info.OS != "unknown" || info.DeviceType != "unknown" {
		t.Errorf("expected unknown fields, got %+v", info)
	}
}

func TestParseUserAgent_DesktopChrome(t *testing.T) {
	info := ParseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	if info.Browser != "Chrome" {
		t.Errorf("expected Chrome, got '%s'", info.Browser)
	}
	if info.DeviceType != "desktop" {
		t.Errorf("expected desktop, got '%s'", info.DeviceType)
	}
}

func TestParseUserAgent_Mobile(t *testing.T) {
	info := ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")

	if info.DeviceType != "mobile" {
		t.Errorf("expected mobile, got '%s'", info.DeviceType)
	}
}

func TestParseUserAgent_Bot(t *testing.T) {
	info := ParseUserAgent("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")

	if info.DeviceType != "bot" {
		t.Errorf("expected bot, got '%s'", info.DeviceType)
	}
}

package core

import "github.com/micahreeves/what-time/internal/domain"

// Preset display lists a chat can adopt wholesale.
var presets = map[string][]domain.NamedZone{
	"north_america": {
		{Name: "🇺🇸 Eastern", TZ: "America/New_York"},
		{Name: "🇺🇸 Central", TZ: "America/Chicago"},
		{Name: "🇺🇸 Mountain", TZ: "America/Denver"},
		{Name: "🇺🇸 Pacific", TZ: "America/Los_Angeles"},
		{Name: "🇨🇦 Eastern", TZ: "America/Toronto"},
	},
	"europe": {
		{Name: "🇬🇧 London", TZ: "Europe/London"},
		{Name: "🇫🇷 Paris", TZ: "Europe/Paris"},
		{Name: "🇩🇪 Berlin", TZ: "Europe/Berlin"},
		{Name: "🇮🇹 Rome", TZ: "Europe/Rome"},
		{Name: "🇪🇸 Madrid", TZ: "Europe/Madrid"},
	},
	"nordic": {
		{Name: "🇳🇴 Oslo", TZ: "Europe/Oslo"},
		{Name: "🇸🇪 Stockholm", TZ: "Europe/Stockholm"},
		{Name: "🇫🇮 Helsinki", TZ: "Europe/Helsinki"},
		{Name: "🇩🇰 Copenhagen", TZ: "Europe/Copenhagen"},
		{Name: "🇮🇸 Reykjavik", TZ: "Atlantic/Reykjavik"},
	},
	"asia": {
		{Name: "🇯🇵 Tokyo", TZ: "Asia/Tokyo"},
		{Name: "🇰🇷 Seoul", TZ: "Asia/Seoul"},
		{Name: "🇨🇳 Beijing", TZ: "Asia/Shanghai"},
		{Name: "🇸🇬 Singapore", TZ: "Asia/Singapore"},
		{Name: "🇮🇳 New Delhi", TZ: "Asia/Kolkata"},
	},
}

// defaultZones is shown when a chat has no display list of its own.
var defaultZones = []domain.NamedZone{
	{Name: "UTC", TZ: "UTC"},
	{Name: "🇺🇸 Eastern", TZ: "America/New_York"},
	{Name: "🇺🇸 Pacific", TZ: "America/Los_Angeles"},
	{Name: "🇬🇧 London", TZ: "Europe/London"},
	{Name: "🇩🇪 Berlin", TZ: "Europe/Berlin"},
	{Name: "🇫🇮 Helsinki", TZ: "Europe/Helsinki"},
}

// PresetKeys lists the available preset names, stable order.
func PresetKeys() []string {
	return []string{"north_america", "europe", "nordic", "asia"}
}

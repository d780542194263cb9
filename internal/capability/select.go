package capability

import (
	"log/slog"
	"strings"

	"github.com/Zandriy/VK-validator/internal/vkapi"
)

// PreferAuto selects by device type only.
const PreferAuto = "auto"

// SelectDevice returns the index of the device an application would pick, or -1
// for an empty list. A preference other than "auto" or "" is matched as a
// case-insensitive substring of the device name; an unmatched or unavailable
// preference falls back to discrete, then integrated, then any available device,
// then the first device.
func SelectDevice(logger *slog.Logger, devices []DeviceInfo, preference string) int {
	if logger == nil {
		logger = slog.Default()
	}

	if preference != PreferAuto && preference != "" {
		preferredLower := strings.ToLower(preference)
		for i := range devices {
			if strings.Contains(strings.ToLower(devices[i].Name()), preferredLower) && devices[i].Available() {
				logger.Debug("Selected preferred device", "device", devices[i].Name(), "preferred", preference)
				return i
			}
		}

		for i := range devices {
			if strings.Contains(strings.ToLower(devices[i].Name()), preferredLower) {
				logger.Warn("Preferred device found but not available",
					"device", devices[i].Name(),
					"preferred", preference,
				)
			}
		}

		logger.Warn("Preferred device not found, falling back to auto-selection",
			"preferred_device", preference,
		)
	}

	for _, want := range []vkapi.DeviceType{vkapi.DeviceTypeDiscreteGPU, vkapi.DeviceTypeIntegratedGPU} {
		for i := range devices {
			if devices[i].Available() && devices[i].Properties.DeviceType == want {
				logger.Debug("Auto-selected device", "device", devices[i].Name(), "type", want.Name())
				return i
			}
		}
	}

	for i := range devices {
		if devices[i].Available() {
			logger.Debug("Auto-selected available device", "device", devices[i].Name())
			return i
		}
	}

	if len(devices) > 0 {
		logger.Warn("No available devices found, using first device", "device", devices[0].Name())
		return 0
	}
	return -1
}

package capability

import (
	"fmt"

	"github.com/Zandriy/VK-validator/internal/vkapi"
)

// VendorNVIDIA is the PCI vendor id of NVIDIA, whose driver version layout differs.
const VendorNVIDIA = 0x10DE

// DeviceInfo is everything captured about one physical device.
type DeviceInfo struct {
	Properties    vkapi.DeviceProperties
	Features      vkapi.Features
	Memory        vkapi.MemoryProperties
	QueueFamilies []vkapi.QueueFamilyProperties
}

// Name returns the driver-reported device name.
func (d *DeviceInfo) Name() string {
	return d.Properties.DeviceName
}

// PCIID returns the vendor:device pair the way PCI id databases key it.
func (d *DeviceInfo) PCIID() string {
	return fmt.Sprintf("%04x:%04x", d.Properties.VendorID, d.Properties.DeviceID)
}

// DriverVersion decodes the packed driver version. NVIDIA uses
// major(10).minor(8).patch(8).build(6); other vendors use the Vulkan layout.
func (d *DeviceInfo) DriverVersion() string {
	v := d.Properties.DriverVersion
	if d.Properties.VendorID == VendorNVIDIA {
		major := (v >> 22) & 0x3FF
		minor := (v >> 14) & 0xFF
		patch := (v >> 6) & 0xFF
		build := v & 0x3F
		return fmt.Sprintf("%d.%d.%d.%d", major, minor, patch, build)
	}
	return vkapi.Version(v).String()
}

// Available reports whether some queue family supports graphics and some supports
// compute.
func (d *DeviceInfo) Available() bool {
	var graphics, compute bool
	for _, qf := range d.QueueFamilies {
		if qf.QueueFlags&vkapi.QueueGraphicsBit != 0 {
			graphics = true
		}
		if qf.QueueFlags&vkapi.QueueComputeBit != 0 {
			compute = true
		}
	}
	return graphics && compute
}

// EnabledFeatures returns the names of the supported features in declaration order.
func (d *DeviceInfo) EnabledFeatures() []string {
	names := make([]string, 0, vkapi.FeatureCount)
	for i, on := range d.Features {
		if on {
			names = append(names, vkapi.FeatureNames[i])
		}
	}
	return names
}

package vkapi

import (
	"fmt"
	"strconv"
	"strings"
)

// Device type names, shared by fixtures, the summary table and structured output.
const (
	DeviceTypeNameOther      = "other"
	DeviceTypeNameIntegrated = "integrated"
	DeviceTypeNameDiscrete   = "discrete"
	DeviceTypeNameVirtual    = "virtual"
	DeviceTypeNameCPU        = "cpu"
)

// Name returns the short lower-case name of the device type.
func (t DeviceType) Name() string {
	switch t {
	case DeviceTypeIntegratedGPU:
		return DeviceTypeNameIntegrated
	case DeviceTypeDiscreteGPU:
		return DeviceTypeNameDiscrete
	case DeviceTypeVirtualGPU:
		return DeviceTypeNameVirtual
	case DeviceTypeCPU:
		return DeviceTypeNameCPU
	default:
		return DeviceTypeNameOther
	}
}

// ParseDeviceType accepts either a short type name or the numeric enum value.
func ParseDeviceType(s string) (DeviceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case DeviceTypeNameOther, "":
		return DeviceTypeOther, nil
	case DeviceTypeNameIntegrated:
		return DeviceTypeIntegratedGPU, nil
	case DeviceTypeNameDiscrete:
		return DeviceTypeDiscreteGPU, nil
	case DeviceTypeNameVirtual:
		return DeviceTypeVirtualGPU, nil
	case DeviceTypeNameCPU:
		return DeviceTypeCPU, nil
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid device type %q", s)
	}
	return DeviceType(n), nil
}

// ParseVersion parses "major.minor.patch" (patch optional) into a packed version.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid version %q: want major.minor[.patch]", s)
	}
	var nums [3]uint32
	limits := [3]uint64{0x3FF, 0x3FF, 0xFFF}
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil || n > limits[i] {
			return 0, fmt.Errorf("invalid version %q", s)
		}
		nums[i] = uint32(n)
	}
	return MakeVersion(nums[0], nums[1], nums[2]), nil
}

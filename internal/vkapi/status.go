package vkapi

import (
	"fmt"
	"strings"
)

// Status is the result code returned by every native query (VkResult).
type Status int32

// Result codes reported by the driver.
const (
	Success                                  Status = 0
	NotReady                                 Status = 1
	Timeout                                  Status = 2
	EventSet                                 Status = 3
	EventReset                               Status = 4
	Incomplete                               Status = 5
	ErrorOutOfHostMemory                     Status = -1
	ErrorOutOfDeviceMemory                   Status = -2
	ErrorInitializationFailed                Status = -3
	ErrorDeviceLost                          Status = -4
	ErrorMemoryMapFailed                     Status = -5
	ErrorLayerNotPresent                     Status = -6
	ErrorExtensionNotPresent                 Status = -7
	ErrorFeatureNotPresent                   Status = -8
	ErrorIncompatibleDriver                  Status = -9
	ErrorTooManyObjects                      Status = -10
	ErrorFormatNotSupported                  Status = -11
	ErrorFragmentedPool                      Status = -12
	ErrorUnknown                             Status = -13
	ErrorOutOfPoolMemory                     Status = -1000069000
	ErrorInvalidExternalHandle               Status = -1000072003
	ErrorSurfaceLost                         Status = -1000000000
	ErrorNativeWindowInUse                   Status = -1000000001
	Suboptimal                               Status = 1000001003
	ErrorOutOfDate                           Status = -1000001004
	ErrorIncompatibleDisplay                 Status = -1000003001
	ErrorValidationFailed                    Status = -1000011001
	ErrorInvalidShader                       Status = -1000012000
	ErrorInvalidDrmFormatModifierPlaneLayout Status = -1000158000
	ErrorFragmentation                       Status = -1000161000
	ErrorNotPermitted                        Status = -1000174001
	ErrorInvalidDeviceAddress                Status = -1000257000
)

// statusNames is the static status -> name table. Order is declaration order of the
// Vulkan headers and is used for the reverse lookup as well.
var statusNames = []struct {
	status Status
	name   string
}{
	{Success, "VK_SUCCESS"},
	{NotReady, "VK_NOT_READY"},
	{Timeout, "VK_TIMEOUT"},
	{EventSet, "VK_EVENT_SET"},
	{EventReset, "VK_EVENT_RESET"},
	{Incomplete, "VK_INCOMPLETE"},
	{ErrorOutOfHostMemory, "VK_ERROR_OUT_OF_HOST_MEMORY"},
	{ErrorOutOfDeviceMemory, "VK_ERROR_OUT_OF_DEVICE_MEMORY"},
	{ErrorInitializationFailed, "VK_ERROR_INITIALIZATION_FAILED"},
	{ErrorDeviceLost, "VK_ERROR_DEVICE_LOST"},
	{ErrorMemoryMapFailed, "VK_ERROR_MEMORY_MAP_FAILED"},
	{ErrorLayerNotPresent, "VK_ERROR_LAYER_NOT_PRESENT"},
	{ErrorExtensionNotPresent, "VK_ERROR_EXTENSION_NOT_PRESENT"},
	{ErrorFeatureNotPresent, "VK_ERROR_FEATURE_NOT_PRESENT"},
	{ErrorIncompatibleDriver, "VK_ERROR_INCOMPATIBLE_DRIVER"},
	{ErrorTooManyObjects, "VK_ERROR_TOO_MANY_OBJECTS"},
	{ErrorFormatNotSupported, "VK_ERROR_FORMAT_NOT_SUPPORTED"},
	{ErrorFragmentedPool, "VK_ERROR_FRAGMENTED_POOL"},
	{ErrorUnknown, "VK_ERROR_UNKNOWN"},
	{ErrorOutOfPoolMemory, "VK_ERROR_OUT_OF_POOL_MEMORY"},
	{ErrorInvalidExternalHandle, "VK_ERROR_INVALID_EXTERNAL_HANDLE"},
	{ErrorSurfaceLost, "VK_ERROR_SURFACE_LOST_KHR"},
	{ErrorNativeWindowInUse, "VK_ERROR_NATIVE_WINDOW_IN_USE_KHR"},
	{Suboptimal, "VK_SUBOPTIMAL_KHR"},
	{ErrorOutOfDate, "VK_ERROR_OUT_OF_DATE_KHR"},
	{ErrorIncompatibleDisplay, "VK_ERROR_INCOMPATIBLE_DISPLAY_KHR"},
	{ErrorValidationFailed, "VK_ERROR_VALIDATION_FAILED_EXT"},
	{ErrorInvalidShader, "VK_ERROR_INVALID_SHADER_NV"},
	{ErrorInvalidDrmFormatModifierPlaneLayout, "VK_ERROR_INVALID_DRM_FORMAT_MODIFIER_PLANE_LAYOUT_EXT"},
	{ErrorFragmentation, "VK_ERROR_FRAGMENTATION_EXT"},
	{ErrorNotPermitted, "VK_ERROR_NOT_PERMITTED_EXT"},
	{ErrorInvalidDeviceAddress, "VK_ERROR_INVALID_DEVICE_ADDRESS_EXT"},
}

// Known reports whether s is part of the fixed result vocabulary.
func (s Status) Known() bool {
	_, ok := lookupName(s)
	return ok
}

// String returns the canonical VK_* name of the status. Values outside the
// vocabulary are formatted numerically.
func (s Status) String() string {
	if name, ok := lookupName(s); ok {
		return name
	}
	return fmt.Sprintf("VkResult(%d)", int32(s))
}

// IsError reports whether s is a failure code (negative VkResult).
func (s Status) IsError() bool {
	return s < 0
}

// ParseStatus resolves a VK_* name back to its Status. The "VK_" prefix is optional
// and matching is case-insensitive.
func ParseStatus(name string) (Status, error) {
	want := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(want, "VK_") {
		want = "VK_" + want
	}
	for _, e := range statusNames {
		if e.name == want {
			return e.status, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}

func lookupName(s Status) (string, bool) {
	for _, e := range statusNames {
		if e.status == s {
			return e.name, true
		}
	}
	return "", false
}

//go:build !vulkan

package vkapi

import "log/slog"

// nativeDriver stands in for the system loader when Vulkan support is not compiled
// in. Load always fails, so the capability walk stops at instance creation.
type nativeDriver struct{}

// NewNative returns the Driver backed by the system Vulkan loader.
// This is a stub implementation when Vulkan support is not compiled in.
func NewNative() Driver {
	slog.Debug("Vulkan support not compiled in, using stub driver")
	return nativeDriver{}
}

func (nativeDriver) Load() error {
	return ErrNotCompiled
}

func (nativeDriver) CreateInstance(InstanceInfo) (Instance, Status) {
	return 0, ErrorInitializationFailed
}

func (nativeDriver) DestroyInstance(Instance) {}

func (nativeDriver) EnumeratePhysicalDevices(Instance, *uint32, []PhysicalDevice) Status {
	return ErrorInitializationFailed
}

func (nativeDriver) GetPhysicalDeviceProperties(PhysicalDevice) DeviceProperties {
	return DeviceProperties{}
}

func (nativeDriver) GetPhysicalDeviceFeatures(PhysicalDevice) Features {
	return Features{}
}

func (nativeDriver) GetPhysicalDeviceMemoryProperties(PhysicalDevice) MemoryProperties {
	return MemoryProperties{}
}

func (nativeDriver) GetPhysicalDeviceQueueFamilyProperties(PhysicalDevice, *uint32, []QueueFamilyProperties) Status {
	return ErrorInitializationFailed
}

func (nativeDriver) EnumerateInstanceLayerProperties(*uint32, []LayerProperties) Status {
	return ErrorInitializationFailed
}

func (nativeDriver) EnumerateInstanceExtensionProperties(string, *uint32, []ExtensionProperties) Status {
	return ErrorInitializationFailed
}

func (nativeDriver) EnumerateDeviceExtensionProperties(PhysicalDevice, string, *uint32, []ExtensionProperties) Status {
	return ErrorInitializationFailed
}

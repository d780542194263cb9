package vkapi

import "errors"

// ErrNotCompiled is returned by Load when the binary was built without native
// Vulkan support.
var ErrNotCompiled = errors.New("vulkan support not compiled in (rebuild with -tags vulkan)")

// Driver is the native query surface. Every variable-length query follows the
// count-then-fill convention: called with a nil slice it stores the required count,
// called with a slice it fills at most *count entries and stores how many it wrote,
// returning Incomplete if the slice was too small for the current result set.
type Driver interface {
	// Load makes the native entry points callable. It must succeed before any
	// other method is used.
	Load() error

	CreateInstance(info InstanceInfo) (Instance, Status)
	DestroyInstance(instance Instance)

	EnumeratePhysicalDevices(instance Instance, count *uint32, devices []PhysicalDevice) Status
	GetPhysicalDeviceProperties(device PhysicalDevice) DeviceProperties
	GetPhysicalDeviceFeatures(device PhysicalDevice) Features
	GetPhysicalDeviceMemoryProperties(device PhysicalDevice) MemoryProperties
	GetPhysicalDeviceQueueFamilyProperties(device PhysicalDevice, count *uint32, families []QueueFamilyProperties) Status

	EnumerateInstanceLayerProperties(count *uint32, layers []LayerProperties) Status
	EnumerateInstanceExtensionProperties(layerName string, count *uint32, extensions []ExtensionProperties) Status
	EnumerateDeviceExtensionProperties(device PhysicalDevice, layerName string, count *uint32, extensions []ExtensionProperties) Status
}

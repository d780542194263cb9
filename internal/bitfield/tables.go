package bitfield

const (
	delimOpen  = "("
	delimClose = ")"
	separator  = " | "
)

// QueueFlags labels VkQueueFlags.
var QueueFlags = Table{
	Entries: []Entry{
		{0x1, "VK_QUEUE_GRAPHICS_BIT"},
		{0x2, "VK_QUEUE_COMPUTE_BIT"},
		{0x4, "VK_QUEUE_TRANSFER_BIT"},
		{0x8, "VK_QUEUE_SPARSE_BINDING_BIT"},
		{0x10, "VK_QUEUE_PROTECTED_BIT"},
	},
	TrimPrefix: len("VK_QUEUE_"),
	TrimSuffix: len("_BIT"),
	Open:       delimOpen,
	Close:      delimClose,
	Separator:  separator,
}

// DeviceTypes labels VkPhysicalDeviceType. The enum is not a mask, so callers go
// through DeviceTypeLabel, which sets exactly one bit per enum value.
var DeviceTypes = Table{
	Entries: []Entry{
		{1 << 0, "VK_PHYSICAL_DEVICE_TYPE_OTHER"},
		{1 << 1, "VK_PHYSICAL_DEVICE_TYPE_INTEGRATED_GPU"},
		{1 << 2, "VK_PHYSICAL_DEVICE_TYPE_DISCRETE_GPU"},
		{1 << 3, "VK_PHYSICAL_DEVICE_TYPE_VIRTUAL_GPU"},
		{1 << 4, "VK_PHYSICAL_DEVICE_TYPE_CPU"},
	},
	TrimPrefix: len("VK_PHYSICAL_DEVICE_TYPE_"),
	Open:       delimOpen,
	Close:      delimClose,
	Separator:  separator,
}

// MemoryProperties labels VkMemoryPropertyFlags.
var MemoryProperties = Table{
	Entries: []Entry{
		{0x1, "VK_MEMORY_PROPERTY_DEVICE_LOCAL_BIT"},
		{0x2, "VK_MEMORY_PROPERTY_HOST_VISIBLE_BIT"},
		{0x4, "VK_MEMORY_PROPERTY_HOST_COHERENT_BIT"},
		{0x8, "VK_MEMORY_PROPERTY_HOST_CACHED_BIT"},
		{0x10, "VK_MEMORY_PROPERTY_LAZILY_ALLOCATED_BIT"},
		{0x20, "VK_MEMORY_PROPERTY_PROTECTED_BIT"},
	},
	TrimPrefix: len("VK_MEMORY_PROPERTY_"),
	TrimSuffix: len("_BIT"),
	Open:       delimOpen,
	Close:      delimClose,
	Separator:  separator,
}

// MemoryHeaps labels VkMemoryHeapFlags.
var MemoryHeaps = Table{
	Entries: []Entry{
		{0x1, "VK_MEMORY_HEAP_DEVICE_LOCAL_BIT"},
		{0x2, "VK_MEMORY_HEAP_MULTI_INSTANCE_BIT"},
	},
	TrimPrefix: len("VK_MEMORY_HEAP_"),
	TrimSuffix: len("_BIT"),
	Open:       delimOpen,
	Close:      delimClose,
	Separator:  separator,
}

// DeviceTypeLabel labels a VkPhysicalDeviceType value.
func DeviceTypeLabel(deviceType uint32) string {
	if deviceType >= 64 {
		return DeviceTypes.Label(0)
	}
	return DeviceTypes.Label(1 << deviceType)
}

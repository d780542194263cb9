// Package vkapi is the boundary to the native Vulkan API: the driver interface the
// capability walk is written against, the result vocabulary and the plain Go
// representations of the structures the driver fills in.
package vkapi

import "fmt"

// Instance is an opaque handle to an initialized driver instance.
type Instance uint64

// PhysicalDevice is an opaque, non-owning reference to one physical device. The
// instance that enumerated it owns its lifetime.
type PhysicalDevice uint64

// UUIDSize is the length of the pipeline cache identity blob.
const UUIDSize = 16

// Version is a packed Vulkan version number.
type Version uint32

// MakeVersion packs major, minor and patch the way VK_MAKE_VERSION does.
func MakeVersion(major, minor, patch uint32) Version {
	return Version(major<<22 | minor<<12 | patch)
}

// Major returns the major component.
func (v Version) Major() uint32 { return uint32(v) >> 22 }

// Minor returns the minor component.
func (v Version) Minor() uint32 { return (uint32(v) >> 12) & 0x3FF }

// Patch returns the patch component.
func (v Version) Patch() uint32 { return uint32(v) & 0xFFF }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// InstanceInfo is the identity an instance is created with. No layers or
// extensions are ever requested.
type InstanceInfo struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	EngineVersion      uint32
	APIVersion         Version
}

// DeviceType mirrors VkPhysicalDeviceType.
type DeviceType uint32

// Physical device types.
const (
	DeviceTypeOther         DeviceType = 0
	DeviceTypeIntegratedGPU DeviceType = 1
	DeviceTypeDiscreteGPU   DeviceType = 2
	DeviceTypeVirtualGPU    DeviceType = 3
	DeviceTypeCPU           DeviceType = 4
)

// Limits holds the subset of VkPhysicalDeviceLimits the report shows.
type Limits struct {
	MaxImageDimension1D            uint32    `json:"max_image_dimension_1d" yaml:"max_image_dimension_1d"`
	MaxImageDimension2D            uint32    `json:"max_image_dimension_2d" yaml:"max_image_dimension_2d"`
	MaxImageDimension3D            uint32    `json:"max_image_dimension_3d" yaml:"max_image_dimension_3d"`
	MaxImageDimensionCube          uint32    `json:"max_image_dimension_cube" yaml:"max_image_dimension_cube"`
	MaxImageArrayLayers            uint32    `json:"max_image_array_layers" yaml:"max_image_array_layers"`
	MaxTexelBufferElements         uint32    `json:"max_texel_buffer_elements" yaml:"max_texel_buffer_elements"`
	MaxUniformBufferRange          uint32    `json:"max_uniform_buffer_range" yaml:"max_uniform_buffer_range"`
	MaxStorageBufferRange          uint32    `json:"max_storage_buffer_range" yaml:"max_storage_buffer_range"`
	MaxPushConstantsSize           uint32    `json:"max_push_constants_size" yaml:"max_push_constants_size"`
	MaxMemoryAllocationCount       uint32    `json:"max_memory_allocation_count" yaml:"max_memory_allocation_count"`
	MaxBoundDescriptorSets         uint32    `json:"max_bound_descriptor_sets" yaml:"max_bound_descriptor_sets"`
	MaxComputeSharedMemorySize     uint32    `json:"max_compute_shared_memory_size" yaml:"max_compute_shared_memory_size"`
	MaxComputeWorkGroupCount       [3]uint32 `json:"max_compute_work_group_count" yaml:"max_compute_work_group_count,flow"`
	MaxComputeWorkGroupInvocations uint32    `json:"max_compute_work_group_invocations" yaml:"max_compute_work_group_invocations"`
	MaxComputeWorkGroupSize        [3]uint32 `json:"max_compute_work_group_size" yaml:"max_compute_work_group_size,flow"`
	MaxViewports                   uint32    `json:"max_viewports" yaml:"max_viewports"`
	MaxFramebufferWidth            uint32    `json:"max_framebuffer_width" yaml:"max_framebuffer_width"`
	MaxFramebufferHeight           uint32    `json:"max_framebuffer_height" yaml:"max_framebuffer_height"`
	BufferImageGranularity         uint64    `json:"buffer_image_granularity" yaml:"buffer_image_granularity"`
	TimestampPeriod                float32   `json:"timestamp_period" yaml:"timestamp_period"`
}

// DeviceProperties mirrors VkPhysicalDeviceProperties.
type DeviceProperties struct {
	APIVersion        Version
	DriverVersion     uint32
	VendorID          uint32
	DeviceID          uint32
	DeviceType        DeviceType
	DeviceName        string
	PipelineCacheUUID [UUIDSize]byte
	Limits            Limits
}

// Features is the fixed-size VkPhysicalDeviceFeatures vector, one entry per
// FeatureNames element.
type Features [FeatureCount]bool

// FeatureCount is the number of Vulkan 1.0 device features.
const FeatureCount = 55

// FeatureNames lists the Vulkan 1.0 device features in VkPhysicalDeviceFeatures
// declaration order.
var FeatureNames = [FeatureCount]string{
	"robustBufferAccess",
	"fullDrawIndexUint32",
	"imageCubeArray",
	"independentBlend",
	"geometryShader",
	"tessellationShader",
	"sampleRateShading",
	"dualSrcBlend",
	"logicOp",
	"multiDrawIndirect",
	"drawIndirectFirstInstance",
	"depthClamp",
	"depthBiasClamp",
	"fillModeNonSolid",
	"depthBounds",
	"wideLines",
	"largePoints",
	"alphaToOne",
	"multiViewport",
	"samplerAnisotropy",
	"textureCompressionETC2",
	"textureCompressionASTC_LDR",
	"textureCompressionBC",
	"occlusionQueryPrecise",
	"pipelineStatisticsQuery",
	"vertexPipelineStoresAndAtomics",
	"fragmentStoresAndAtomics",
	"shaderTessellationAndGeometryPointSize",
	"shaderImageGatherExtended",
	"shaderStorageImageExtendedFormats",
	"shaderStorageImageMultisample",
	"shaderStorageImageReadWithoutFormat",
	"shaderStorageImageWriteWithoutFormat",
	"shaderUniformBufferArrayDynamicIndexing",
	"shaderSampledImageArrayDynamicIndexing",
	"shaderStorageBufferArrayDynamicIndexing",
	"shaderStorageImageArrayDynamicIndexing",
	"shaderClipDistance",
	"shaderCullDistance",
	"shaderFloat64",
	"shaderInt64",
	"shaderInt16",
	"shaderResourceResidency",
	"shaderResourceMinLod",
	"sparseBinding",
	"sparseResidencyBuffer",
	"sparseResidencyImage2D",
	"sparseResidencyImage3D",
	"sparseResidency2Samples",
	"sparseResidency4Samples",
	"sparseResidency8Samples",
	"sparseResidency16Samples",
	"sparseResidencyAliased",
	"variableMultisampleRate",
	"inheritedQueries",
}

// FeatureIndex returns the position of a named feature, or -1.
func FeatureIndex(name string) int {
	for i, n := range FeatureNames {
		if n == name {
			return i
		}
	}
	return -1
}

// MemoryType mirrors VkMemoryType.
type MemoryType struct {
	PropertyFlags uint32 `json:"property_flags" yaml:"property_flags"`
	HeapIndex     uint32 `json:"heap_index" yaml:"heap_index"`
}

// MemoryHeap mirrors VkMemoryHeap.
type MemoryHeap struct {
	Size  uint64 `json:"size" yaml:"size"`
	Flags uint32 `json:"flags" yaml:"flags"`
}

// MemoryProperties mirrors VkPhysicalDeviceMemoryProperties with the fixed arrays
// trimmed to their reported counts.
type MemoryProperties struct {
	Types []MemoryType
	Heaps []MemoryHeap
}

// Extent3D mirrors VkExtent3D.
type Extent3D struct {
	Width  uint32 `json:"width" yaml:"width"`
	Height uint32 `json:"height" yaml:"height"`
	Depth  uint32 `json:"depth" yaml:"depth"`
}

func (e Extent3D) String() string {
	return fmt.Sprintf("%dx%dx%d", e.Width, e.Height, e.Depth)
}

// QueueFamilyProperties mirrors VkQueueFamilyProperties.
type QueueFamilyProperties struct {
	QueueFlags                  uint32   `json:"queue_flags" yaml:"queue_flags"`
	QueueCount                  uint32   `json:"queue_count" yaml:"queue_count"`
	TimestampValidBits          uint32   `json:"timestamp_valid_bits" yaml:"timestamp_valid_bits"`
	MinImageTransferGranularity Extent3D `json:"min_image_transfer_granularity" yaml:"min_image_transfer_granularity"`
}

// Queue capability bits.
const (
	QueueGraphicsBit      uint32 = 0x1
	QueueComputeBit       uint32 = 0x2
	QueueTransferBit      uint32 = 0x4
	QueueSparseBindingBit uint32 = 0x8
	QueueProtectedBit     uint32 = 0x10
)

// Memory property bits.
const (
	MemoryPropertyDeviceLocalBit     uint32 = 0x1
	MemoryPropertyHostVisibleBit     uint32 = 0x2
	MemoryPropertyHostCoherentBit    uint32 = 0x4
	MemoryPropertyHostCachedBit      uint32 = 0x8
	MemoryPropertyLazilyAllocatedBit uint32 = 0x10
	MemoryPropertyProtectedBit       uint32 = 0x20
)

// Memory heap bits.
const (
	MemoryHeapDeviceLocalBit   uint32 = 0x1
	MemoryHeapMultiInstanceBit uint32 = 0x2
)

// LayerProperties mirrors VkLayerProperties.
type LayerProperties struct {
	LayerName             string  `json:"layer_name" yaml:"layer_name"`
	SpecVersion           Version `json:"spec_version" yaml:"spec_version"`
	ImplementationVersion uint32  `json:"implementation_version" yaml:"implementation_version"`
	Description           string  `json:"description" yaml:"description"`
}

// Implicit reports whether the entry is the synthetic "no layer enabled" level.
func (l LayerProperties) Implicit() bool {
	return l.LayerName == ""
}

// ExtensionProperties mirrors VkExtensionProperties.
type ExtensionProperties struct {
	ExtensionName string `json:"name" yaml:"name"`
	SpecVersion   uint32 `json:"spec_version" yaml:"spec_version"`
}

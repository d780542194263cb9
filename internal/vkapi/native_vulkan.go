//go:build vulkan

package vkapi

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	vk "github.com/vulkan-go/vulkan"
)

// nativeDriver forwards to the system Vulkan loader. Native handles are kept in
// per-driver arenas and exposed as 1-based indices so no C pointer leaves this file.
type nativeDriver struct {
	loadOnce sync.Once
	loadErr  error

	instances []vk.Instance
	devices   []vk.PhysicalDevice
}

// NewNative returns the Driver backed by the system Vulkan loader.
func NewNative() Driver {
	return &nativeDriver{}
}

// Load resolves vkGetInstanceProcAddr from the platform loader and the global
// entry points. Only the first call does any work.
func (d *nativeDriver) Load() error {
	d.loadOnce.Do(func() {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			d.loadErr = fmt.Errorf("failed to locate vulkan loader: %w", err)
			return
		}
		if err := vk.Init(); err != nil {
			d.loadErr = fmt.Errorf("failed to initialize vulkan: %w", err)
			return
		}
		slog.Debug("Vulkan loader initialized")
	})
	return d.loadErr
}

func (d *nativeDriver) CreateInstance(info InstanceInfo) (Instance, Status) {
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(info.ApplicationName),
		ApplicationVersion: info.ApplicationVersion,
		PEngineName:        safeString(info.EngineName),
		EngineVersion:      info.EngineVersion,
		ApiVersion:         uint32(info.APIVersion),
	}

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}, nil, &instance)
	if ret != vk.Success {
		return 0, Status(ret)
	}

	if err := vk.InitInstance(instance); err != nil {
		slog.Error("Failed to load instance entry points", "error", err)
		vk.DestroyInstance(instance, nil)
		return 0, ErrorInitializationFailed
	}

	d.instances = append(d.instances, instance)
	return Instance(len(d.instances)), Success
}

func (d *nativeDriver) DestroyInstance(handle Instance) {
	instance, ok := d.instance(handle)
	if !ok {
		return
	}
	vk.DestroyInstance(instance, nil)
	d.instances[handle-1] = nil
}

func (d *nativeDriver) EnumeratePhysicalDevices(handle Instance, count *uint32, devices []PhysicalDevice) Status {
	instance, ok := d.instance(handle)
	if !ok {
		return ErrorInitializationFailed
	}
	if devices == nil {
		return Status(vk.EnumeratePhysicalDevices(instance, count, nil))
	}

	raw := make([]vk.PhysicalDevice, len(devices))
	ret := vk.EnumeratePhysicalDevices(instance, count, raw)
	for i := 0; i < int(*count) && i < len(devices); i++ {
		devices[i] = d.deviceHandle(raw[i])
	}
	return Status(ret)
}

func (d *nativeDriver) GetPhysicalDeviceProperties(handle PhysicalDevice) DeviceProperties {
	device, ok := d.device(handle)
	if !ok {
		return DeviceProperties{}
	}

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(device, &props)
	props.Deref()
	props.Limits.Deref()
	l := props.Limits

	out := DeviceProperties{
		APIVersion:    Version(props.ApiVersion),
		DriverVersion: props.DriverVersion,
		VendorID:      props.VendorID,
		DeviceID:      props.DeviceID,
		DeviceType:    DeviceType(props.DeviceType),
		DeviceName:    vk.ToString(props.DeviceName[:]),
		Limits: Limits{
			MaxImageDimension1D:            l.MaxImageDimension1D,
			MaxImageDimension2D:            l.MaxImageDimension2D,
			MaxImageDimension3D:            l.MaxImageDimension3D,
			MaxImageDimensionCube:          l.MaxImageDimensionCube,
			MaxImageArrayLayers:            l.MaxImageArrayLayers,
			MaxTexelBufferElements:         l.MaxTexelBufferElements,
			MaxUniformBufferRange:          l.MaxUniformBufferRange,
			MaxStorageBufferRange:          l.MaxStorageBufferRange,
			MaxPushConstantsSize:           l.MaxPushConstantsSize,
			MaxMemoryAllocationCount:       l.MaxMemoryAllocationCount,
			MaxBoundDescriptorSets:         l.MaxBoundDescriptorSets,
			MaxComputeSharedMemorySize:     l.MaxComputeSharedMemorySize,
			MaxComputeWorkGroupCount:       l.MaxComputeWorkGroupCount,
			MaxComputeWorkGroupInvocations: l.MaxComputeWorkGroupInvocations,
			MaxComputeWorkGroupSize:        l.MaxComputeWorkGroupSize,
			MaxViewports:                   l.MaxViewports,
			MaxFramebufferWidth:            l.MaxFramebufferWidth,
			MaxFramebufferHeight:           l.MaxFramebufferHeight,
			BufferImageGranularity:         uint64(l.BufferImageGranularity),
			TimestampPeriod:                l.TimestampPeriod,
		},
	}
	copy(out.PipelineCacheUUID[:], props.PipelineCacheUUID[:])
	return out
}

// GetPhysicalDeviceFeatures walks the VkBool32 fields of the binding's struct in
// declaration order, which matches FeatureNames.
func (d *nativeDriver) GetPhysicalDeviceFeatures(handle PhysicalDevice) Features {
	var out Features
	device, ok := d.device(handle)
	if !ok {
		return out
	}

	var feats vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(device, &feats)
	feats.Deref()

	v := reflect.ValueOf(feats)
	t := v.Type()
	n := 0
	for i := 0; i < t.NumField() && n < FeatureCount; i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type.Kind() != reflect.Uint32 {
			continue
		}
		out[n] = v.Field(i).Uint() != 0
		n++
	}
	return out
}

func (d *nativeDriver) GetPhysicalDeviceMemoryProperties(handle PhysicalDevice) MemoryProperties {
	device, ok := d.device(handle)
	if !ok {
		return MemoryProperties{}
	}

	var mem vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(device, &mem)
	mem.Deref()

	out := MemoryProperties{
		Types: make([]MemoryType, 0, mem.MemoryTypeCount),
		Heaps: make([]MemoryHeap, 0, mem.MemoryHeapCount),
	}
	for i := uint32(0); i < mem.MemoryTypeCount; i++ {
		mt := mem.MemoryTypes[i]
		mt.Deref()
		out.Types = append(out.Types, MemoryType{
			PropertyFlags: uint32(mt.PropertyFlags),
			HeapIndex:     mt.HeapIndex,
		})
	}
	for i := uint32(0); i < mem.MemoryHeapCount; i++ {
		mh := mem.MemoryHeaps[i]
		mh.Deref()
		out.Heaps = append(out.Heaps, MemoryHeap{
			Size:  uint64(mh.Size),
			Flags: uint32(mh.Flags),
		})
	}
	return out
}

// GetPhysicalDeviceQueueFamilyProperties never reports Incomplete: the native call
// has no result code and silently truncates to the provided count.
func (d *nativeDriver) GetPhysicalDeviceQueueFamilyProperties(handle PhysicalDevice, count *uint32, families []QueueFamilyProperties) Status {
	device, ok := d.device(handle)
	if !ok {
		return ErrorDeviceLost
	}
	if families == nil {
		vk.GetPhysicalDeviceQueueFamilyProperties(device, count, nil)
		return Success
	}

	raw := make([]vk.QueueFamilyProperties, len(families))
	vk.GetPhysicalDeviceQueueFamilyProperties(device, count, raw)
	for i := 0; i < int(*count) && i < len(families); i++ {
		raw[i].Deref()
		raw[i].MinImageTransferGranularity.Deref()
		g := raw[i].MinImageTransferGranularity
		families[i] = QueueFamilyProperties{
			QueueFlags:         uint32(raw[i].QueueFlags),
			QueueCount:         raw[i].QueueCount,
			TimestampValidBits: raw[i].TimestampValidBits,
			MinImageTransferGranularity: Extent3D{
				Width:  g.Width,
				Height: g.Height,
				Depth:  g.Depth,
			},
		}
	}
	return Success
}

func (d *nativeDriver) EnumerateInstanceLayerProperties(count *uint32, layers []LayerProperties) Status {
	if layers == nil {
		return Status(vk.EnumerateInstanceLayerProperties(count, nil))
	}

	raw := make([]vk.LayerProperties, len(layers))
	ret := vk.EnumerateInstanceLayerProperties(count, raw)
	for i := 0; i < int(*count) && i < len(layers); i++ {
		raw[i].Deref()
		layers[i] = LayerProperties{
			LayerName:             vk.ToString(raw[i].LayerName[:]),
			SpecVersion:           Version(raw[i].SpecVersion),
			ImplementationVersion: raw[i].ImplementationVersion,
			Description:           vk.ToString(raw[i].Description[:]),
		}
	}
	return Status(ret)
}

func (d *nativeDriver) EnumerateInstanceExtensionProperties(layerName string, count *uint32, extensions []ExtensionProperties) Status {
	if extensions == nil {
		return Status(vk.EnumerateInstanceExtensionProperties(safeString(layerName), count, nil))
	}

	raw := make([]vk.ExtensionProperties, len(extensions))
	ret := vk.EnumerateInstanceExtensionProperties(safeString(layerName), count, raw)
	copyExtensions(extensions, raw, *count)
	return Status(ret)
}

func (d *nativeDriver) EnumerateDeviceExtensionProperties(handle PhysicalDevice, layerName string, count *uint32, extensions []ExtensionProperties) Status {
	device, ok := d.device(handle)
	if !ok {
		return ErrorDeviceLost
	}
	if extensions == nil {
		return Status(vk.EnumerateDeviceExtensionProperties(device, safeString(layerName), count, nil))
	}

	raw := make([]vk.ExtensionProperties, len(extensions))
	ret := vk.EnumerateDeviceExtensionProperties(device, safeString(layerName), count, raw)
	copyExtensions(extensions, raw, *count)
	return Status(ret)
}

func copyExtensions(dst []ExtensionProperties, raw []vk.ExtensionProperties, count uint32) {
	for i := 0; i < int(count) && i < len(dst); i++ {
		raw[i].Deref()
		dst[i] = ExtensionProperties{
			ExtensionName: vk.ToString(raw[i].ExtensionName[:]),
			SpecVersion:   raw[i].SpecVersion,
		}
	}
}

func (d *nativeDriver) instance(h Instance) (vk.Instance, bool) {
	if h == 0 || int(h) > len(d.instances) || d.instances[h-1] == nil {
		return nil, false
	}
	return d.instances[h-1], true
}

func (d *nativeDriver) device(h PhysicalDevice) (vk.PhysicalDevice, bool) {
	if h == 0 || int(h) > len(d.devices) {
		return nil, false
	}
	return d.devices[h-1], true
}

// deviceHandle returns the stable handle for a native device, registering it on
// first sight. Re-enumeration after Incomplete yields the same handles.
func (d *nativeDriver) deviceHandle(device vk.PhysicalDevice) PhysicalDevice {
	for i, known := range d.devices {
		if known == device {
			return PhysicalDevice(i + 1)
		}
	}
	d.devices = append(d.devices, device)
	return PhysicalDevice(len(d.devices))
}

// safeString NUL-terminates strings handed to the C side.
func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\x00' {
		return s + "\x00"
	}
	return s
}

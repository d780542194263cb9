package vkapi

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// QueryKind names a variable-length query for fault injection.
type QueryKind string

// Queries a Fault can target.
const (
	QueryPhysicalDevices    QueryKind = "physical_devices"
	QueryQueueFamilies      QueryKind = "queue_families"
	QueryLayers             QueryKind = "layers"
	QueryInstanceExtensions QueryKind = "instance_extensions"
	QueryDeviceExtensions   QueryKind = "device_extensions"
)

// Fixture describes a machine's driver surface in YAML. The zero-named layer
// (instance-level extensions with no layer enabled) is described by Extensions.
type Fixture struct {
	LoadError      string                `yaml:"load_error"`
	InstanceStatus string                `yaml:"instance_status"`
	Extensions     []ExtensionProperties `yaml:"extensions"`
	Devices        []FixtureDevice       `yaml:"devices"`
	Layers         []FixtureLayer        `yaml:"layers"`
	Faults         []Fault               `yaml:"faults"`
}

// FixtureDevice describes one physical device. Extensions is keyed by layer name,
// "" being the implicit level.
type FixtureDevice struct {
	Name              string                           `yaml:"name"`
	VendorID          uint32                           `yaml:"vendor_id"`
	DeviceID          uint32                           `yaml:"device_id"`
	Type              string                           `yaml:"type"`
	APIVersion        string                           `yaml:"api_version"`
	DriverVersion     uint32                           `yaml:"driver_version"`
	PipelineCacheUUID string                           `yaml:"pipeline_cache_uuid"`
	Limits            Limits                           `yaml:"limits"`
	Features          []string                         `yaml:"features"`
	MemoryTypes       []MemoryType                     `yaml:"memory_types"`
	MemoryHeaps       []MemoryHeap                     `yaml:"memory_heaps"`
	QueueFamilies     []QueueFamilyProperties          `yaml:"queue_families"`
	Extensions        map[string][]ExtensionProperties `yaml:"extensions"`
}

// FixtureLayer describes one explicit layer and its instance-scoped extensions.
type FixtureLayer struct {
	Name                  string                `yaml:"name"`
	SpecVersion           string                `yaml:"spec_version"`
	ImplementationVersion uint32                `yaml:"implementation_version"`
	Description           string                `yaml:"description"`
	Extensions            []ExtensionProperties `yaml:"extensions"`
}

// Fault makes a query misbehave. Incomplete makes the fill call report
// VK_INCOMPLETE that many times; Status makes the count call fail with it.
// Layer and Device narrow the match; an unset Device matches every device.
type Fault struct {
	Query      QueryKind `yaml:"query"`
	Layer      string    `yaml:"layer"`
	Device     *int      `yaml:"device"`
	Incomplete int       `yaml:"incomplete"`
	Status     string    `yaml:"status"`
}

// LoadFixture reads and parses a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	// #nosec G304 - path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture parses fixture YAML.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

type fixtureDevice struct {
	props      DeviceProperties
	features   Features
	memory     MemoryProperties
	families   []QueueFamilyProperties
	extensions map[string][]ExtensionProperties
}

type fixtureFault struct {
	Fault
	status    Status
	remaining int
}

// FixtureDriver is a Driver that answers from a Fixture. It counts every native
// call and instance lifetime event so tests can assert on the protocol.
type FixtureDriver struct {
	loadErr        error
	instanceStatus Status
	extensions     []ExtensionProperties
	devices        []fixtureDevice
	layers         []FixtureLayer
	layerProps     []LayerProperties
	faults         []*fixtureFault

	live      map[Instance]bool
	next      Instance
	created   int
	destroyed int
	calls     map[QueryKind]int
}

// NewFixtureDriver validates f and builds a driver from it.
func NewFixtureDriver(f *Fixture) (*FixtureDriver, error) {
	d := &FixtureDriver{
		extensions: f.Extensions,
		layers:     f.Layers,
		live:       make(map[Instance]bool),
		calls:      make(map[QueryKind]int),
	}
	if f.LoadError != "" {
		d.loadErr = errors.New(f.LoadError)
	}

	if f.InstanceStatus != "" {
		st, err := ParseStatus(f.InstanceStatus)
		if err != nil {
			return nil, fmt.Errorf("instance_status: %w", err)
		}
		d.instanceStatus = st
	}

	for i, fd := range f.Devices {
		dev, err := buildFixtureDevice(fd)
		if err != nil {
			return nil, fmt.Errorf("devices[%d]: %w", i, err)
		}
		d.devices = append(d.devices, dev)
	}

	for i, l := range f.Layers {
		spec, err := ParseVersion(l.SpecVersion)
		if err != nil {
			return nil, fmt.Errorf("layers[%d].spec_version: %w", i, err)
		}
		d.layerProps = append(d.layerProps, LayerProperties{
			LayerName:             l.Name,
			SpecVersion:           spec,
			ImplementationVersion: l.ImplementationVersion,
			Description:           l.Description,
		})
	}

	for i, fault := range f.Faults {
		ff := &fixtureFault{Fault: fault, remaining: fault.Incomplete}
		switch fault.Query {
		case QueryPhysicalDevices, QueryQueueFamilies, QueryLayers, QueryInstanceExtensions, QueryDeviceExtensions:
		default:
			return nil, fmt.Errorf("faults[%d]: unknown query %q", i, fault.Query)
		}
		if fault.Status != "" {
			st, err := ParseStatus(fault.Status)
			if err != nil {
				return nil, fmt.Errorf("faults[%d].status: %w", i, err)
			}
			ff.status = st
		}
		d.faults = append(d.faults, ff)
	}

	return d, nil
}

func buildFixtureDevice(fd FixtureDevice) (fixtureDevice, error) {
	dt, err := ParseDeviceType(fd.Type)
	if err != nil {
		return fixtureDevice{}, err
	}
	api, err := ParseVersion(fd.APIVersion)
	if err != nil {
		return fixtureDevice{}, fmt.Errorf("api_version: %w", err)
	}

	dev := fixtureDevice{
		props: DeviceProperties{
			APIVersion:    api,
			DriverVersion: fd.DriverVersion,
			VendorID:      fd.VendorID,
			DeviceID:      fd.DeviceID,
			DeviceType:    dt,
			DeviceName:    fd.Name,
			Limits:        fd.Limits,
		},
		memory:     MemoryProperties{Types: fd.MemoryTypes, Heaps: fd.MemoryHeaps},
		families:   fd.QueueFamilies,
		extensions: fd.Extensions,
	}

	if fd.PipelineCacheUUID != "" {
		raw, err := hex.DecodeString(strings.ReplaceAll(fd.PipelineCacheUUID, "-", ""))
		if err != nil || len(raw) != UUIDSize {
			return fixtureDevice{}, fmt.Errorf("pipeline_cache_uuid: want %d hex bytes", UUIDSize)
		}
		copy(dev.props.PipelineCacheUUID[:], raw)
	}

	for _, name := range fd.Features {
		idx := FeatureIndex(name)
		if idx < 0 {
			return fixtureDevice{}, fmt.Errorf("unknown feature %q", name)
		}
		dev.features[idx] = true
	}
	return dev, nil
}

// Created returns how many instances were successfully created.
func (d *FixtureDriver) Created() int { return d.created }

// Destroyed returns how many live instances were destroyed.
func (d *FixtureDriver) Destroyed() int { return d.destroyed }

// Calls returns how many times a query was invoked, count and fill calls included.
func (d *FixtureDriver) Calls(q QueryKind) int { return d.calls[q] }

func (d *FixtureDriver) Load() error {
	return d.loadErr
}

func (d *FixtureDriver) CreateInstance(InstanceInfo) (Instance, Status) {
	if d.instanceStatus != Success {
		return 0, d.instanceStatus
	}
	d.next++
	d.live[d.next] = true
	d.created++
	return d.next, Success
}

func (d *FixtureDriver) DestroyInstance(instance Instance) {
	if !d.live[instance] {
		return
	}
	delete(d.live, instance)
	d.destroyed++
}

func (d *FixtureDriver) EnumeratePhysicalDevices(instance Instance, count *uint32, devices []PhysicalDevice) Status {
	if !d.live[instance] {
		return ErrorInitializationFailed
	}
	handles := make([]PhysicalDevice, len(d.devices))
	for i := range d.devices {
		handles[i] = PhysicalDevice(i + 1)
	}
	return fill(d, d.fault(QueryPhysicalDevices, "", -1), QueryPhysicalDevices, handles, count, devices)
}

func (d *FixtureDriver) GetPhysicalDeviceProperties(device PhysicalDevice) DeviceProperties {
	if dev, ok := d.device(device); ok {
		return dev.props
	}
	return DeviceProperties{}
}

func (d *FixtureDriver) GetPhysicalDeviceFeatures(device PhysicalDevice) Features {
	if dev, ok := d.device(device); ok {
		return dev.features
	}
	return Features{}
}

func (d *FixtureDriver) GetPhysicalDeviceMemoryProperties(device PhysicalDevice) MemoryProperties {
	if dev, ok := d.device(device); ok {
		return dev.memory
	}
	return MemoryProperties{}
}

func (d *FixtureDriver) GetPhysicalDeviceQueueFamilyProperties(device PhysicalDevice, count *uint32, families []QueueFamilyProperties) Status {
	dev, ok := d.device(device)
	if !ok {
		return ErrorDeviceLost
	}
	return fill(d, d.fault(QueryQueueFamilies, "", int(device)-1), QueryQueueFamilies, dev.families, count, families)
}

func (d *FixtureDriver) EnumerateInstanceLayerProperties(count *uint32, layers []LayerProperties) Status {
	return fill(d, d.fault(QueryLayers, "", -1), QueryLayers, d.layerProps, count, layers)
}

func (d *FixtureDriver) EnumerateInstanceExtensionProperties(layerName string, count *uint32, extensions []ExtensionProperties) Status {
	src := d.extensions
	if layerName != "" {
		layer, ok := d.layer(layerName)
		if !ok {
			d.calls[QueryInstanceExtensions]++
			return ErrorLayerNotPresent
		}
		src = layer.Extensions
	}
	return fill(d, d.fault(QueryInstanceExtensions, layerName, -1), QueryInstanceExtensions, src, count, extensions)
}

func (d *FixtureDriver) EnumerateDeviceExtensionProperties(device PhysicalDevice, layerName string, count *uint32, extensions []ExtensionProperties) Status {
	dev, ok := d.device(device)
	if !ok {
		return ErrorDeviceLost
	}
	if layerName != "" {
		if _, ok := d.layer(layerName); !ok {
			d.calls[QueryDeviceExtensions]++
			return ErrorLayerNotPresent
		}
	}
	fault := d.fault(QueryDeviceExtensions, layerName, int(device)-1)
	return fill(d, fault, QueryDeviceExtensions, dev.extensions[layerName], count, extensions)
}

func (d *FixtureDriver) device(h PhysicalDevice) (fixtureDevice, bool) {
	if h == 0 || int(h) > len(d.devices) {
		return fixtureDevice{}, false
	}
	return d.devices[h-1], true
}

func (d *FixtureDriver) layer(name string) (FixtureLayer, bool) {
	for _, l := range d.layers {
		if l.Name == name {
			return l, true
		}
	}
	return FixtureLayer{}, false
}

func (d *FixtureDriver) fault(q QueryKind, layer string, device int) *fixtureFault {
	for _, f := range d.faults {
		if f.Query != q || f.Layer != layer {
			continue
		}
		if f.Device != nil && *f.Device != device {
			continue
		}
		return f
	}
	return nil
}

// fill implements the count-then-fill convention over src. A pending Incomplete
// fault makes the fill call write what fits and report VK_INCOMPLETE, as a driver
// does when the result set grew between the two calls.
func fill[T any](d *FixtureDriver, fault *fixtureFault, q QueryKind, src []T, count *uint32, dst []T) Status {
	d.calls[q]++
	if dst == nil {
		if fault != nil && fault.status != Success {
			return fault.status
		}
		*count = uint32(len(src))
		return Success
	}

	n := copy(dst[:min(int(*count), len(dst))], src)
	*count = uint32(n)
	if fault != nil && fault.remaining > 0 {
		fault.remaining--
		return Incomplete
	}
	if n < len(src) {
		return Incomplete
	}
	return Success
}

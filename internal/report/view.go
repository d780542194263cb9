package report

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/Zandriy/VK-validator/internal/bitfield"
	"github.com/Zandriy/VK-validator/internal/capability"
	"github.com/Zandriy/VK-validator/internal/vkapi"
)

// View is the report with every flag field decoded, shaped for JSON and YAML.
type View struct {
	ID       string       `json:"id" yaml:"id"`
	Complete bool         `json:"complete" yaml:"complete"`
	Instance InstanceView `json:"instance" yaml:"instance"`
	Devices  []DeviceView `json:"devices" yaml:"devices"`
	Layers   []LayerView  `json:"layers" yaml:"layers"`
	Failure  *FailureView `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// InstanceView is the instance identity.
type InstanceView struct {
	Application string `json:"application" yaml:"application"`
	Engine      string `json:"engine" yaml:"engine"`
	APIVersion  string `json:"api_version" yaml:"api_version"`
}

// DeviceView is one physical device.
type DeviceView struct {
	Index             int               `json:"index" yaml:"index"`
	Name              string            `json:"name" yaml:"name"`
	VendorID          string            `json:"vendor_id" yaml:"vendor_id"`
	DeviceID          string            `json:"device_id" yaml:"device_id"`
	PCIID             string            `json:"pci_id" yaml:"pci_id"`
	Type              string            `json:"type" yaml:"type"`
	APIVersion        string            `json:"api_version" yaml:"api_version"`
	DriverVersion     string            `json:"driver_version" yaml:"driver_version"`
	PipelineCacheUUID string            `json:"pipeline_cache_uuid" yaml:"pipeline_cache_uuid"`
	Limits            vkapi.Limits      `json:"limits" yaml:"limits"`
	Features          []string          `json:"features" yaml:"features"`
	MemoryTypes       []MemoryTypeView  `json:"memory_types" yaml:"memory_types"`
	MemoryHeaps       []MemoryHeapView  `json:"memory_heaps" yaml:"memory_heaps"`
	QueueFamilies     []QueueFamilyView `json:"queue_families" yaml:"queue_families"`
}

// MemoryTypeView is one memory type with its decoded property label.
type MemoryTypeView struct {
	HeapIndex uint32 `json:"heap_index" yaml:"heap_index"`
	Flags     string `json:"flags" yaml:"flags"`
}

// MemoryHeapView is one memory heap.
type MemoryHeapView struct {
	Size      uint64 `json:"size" yaml:"size"`
	SizeHuman string `json:"size_human" yaml:"size_human"`
	Flags     string `json:"flags" yaml:"flags"`
}

// QueueFamilyView is one queue family.
type QueueFamilyView struct {
	Flags                       string   `json:"flags" yaml:"flags"`
	Capabilities                []string `json:"capabilities" yaml:"capabilities"`
	QueueCount                  uint32   `json:"queue_count" yaml:"queue_count"`
	TimestampValidBits          uint32   `json:"timestamp_valid_bits" yaml:"timestamp_valid_bits"`
	MinImageTransferGranularity string   `json:"min_image_transfer_granularity" yaml:"min_image_transfer_granularity"`
}

// LayerView is one capability layer. The implicit layer has an empty name.
type LayerView struct {
	Name                  string                      `json:"name" yaml:"name"`
	Implicit              bool                        `json:"implicit" yaml:"implicit"`
	SpecVersion           string                      `json:"spec_version,omitempty" yaml:"spec_version,omitempty"`
	ImplementationVersion uint32                      `json:"implementation_version,omitempty" yaml:"implementation_version,omitempty"`
	Description           string                      `json:"description,omitempty" yaml:"description,omitempty"`
	InstanceExtensions    []vkapi.ExtensionProperties `json:"instance_extensions" yaml:"instance_extensions"`
	DeviceExtensions      []DeviceExtensionsView      `json:"device_extensions" yaml:"device_extensions"`
}

// DeviceExtensionsView is the extension list one layer exposes on one device.
type DeviceExtensionsView struct {
	Device     int                         `json:"device" yaml:"device"`
	Name       string                      `json:"name" yaml:"name"`
	Extensions []vkapi.ExtensionProperties `json:"extensions" yaml:"extensions"`
}

// FailureView describes the call that stopped the build.
type FailureView struct {
	Stage   string `json:"stage" yaml:"stage"`
	Call    string `json:"call" yaml:"call"`
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

// NewView decodes r. A fatal report yields only the id and the failure.
func NewView(r *capability.Report) *View {
	v := &View{
		ID:       r.ID,
		Complete: r.Complete(),
		Devices:  []DeviceView{},
		Layers:   []LayerView{},
	}

	if r.Failure != nil {
		v.Failure = &FailureView{
			Stage:   r.Failure.Stage.String(),
			Call:    r.Failure.Call,
			Status:  r.Failure.Status.String(),
			Message: r.Failure.Error(),
		}
	}
	if r.Fatal() {
		return v
	}

	v.Instance = InstanceView{
		Application: fmt.Sprintf("%s v%d", r.Instance.ApplicationName, r.Instance.ApplicationVersion),
		Engine:      fmt.Sprintf("%s v%d", r.Instance.EngineName, r.Instance.EngineVersion),
		APIVersion:  r.Instance.APIVersion.String(),
	}

	for i := range r.Devices {
		v.Devices = append(v.Devices, newDeviceView(i, &r.Devices[i]))
	}

	for _, l := range r.Layers {
		lv := LayerView{
			Name:               l.Properties.LayerName,
			Implicit:           l.Properties.Implicit(),
			InstanceExtensions: l.InstanceExtensions,
			DeviceExtensions:   make([]DeviceExtensionsView, 0, len(l.DeviceExtensions)),
		}
		if !lv.Implicit {
			lv.SpecVersion = l.Properties.SpecVersion.String()
			lv.ImplementationVersion = l.Properties.ImplementationVersion
			lv.Description = l.Properties.Description
		}
		for i, exts := range l.DeviceExtensions {
			dv := DeviceExtensionsView{Device: i, Extensions: exts}
			if i < len(r.Devices) {
				dv.Name = r.Devices[i].Name()
			}
			lv.DeviceExtensions = append(lv.DeviceExtensions, dv)
		}
		v.Layers = append(v.Layers, lv)
	}
	return v
}

func newDeviceView(index int, d *capability.DeviceInfo) DeviceView {
	props := d.Properties
	dv := DeviceView{
		Index:             index,
		Name:              props.DeviceName,
		VendorID:          fmt.Sprintf("0x%04X", props.VendorID),
		DeviceID:          fmt.Sprintf("0x%04X", props.DeviceID),
		PCIID:             d.PCIID(),
		Type:              bitfield.DeviceTypeLabel(uint32(props.DeviceType)),
		APIVersion:        props.APIVersion.String(),
		DriverVersion:     d.DriverVersion(),
		PipelineCacheUUID: FormatUUID(props.PipelineCacheUUID),
		Limits:            props.Limits,
		Features:          d.EnabledFeatures(),
		MemoryTypes:       make([]MemoryTypeView, 0, len(d.Memory.Types)),
		MemoryHeaps:       make([]MemoryHeapView, 0, len(d.Memory.Heaps)),
		QueueFamilies:     make([]QueueFamilyView, 0, len(d.QueueFamilies)),
	}
	for _, mt := range d.Memory.Types {
		dv.MemoryTypes = append(dv.MemoryTypes, MemoryTypeView{
			HeapIndex: mt.HeapIndex,
			Flags:     bitfield.MemoryProperties.Label(uint64(mt.PropertyFlags)),
		})
	}
	for _, mh := range d.Memory.Heaps {
		dv.MemoryHeaps = append(dv.MemoryHeaps, MemoryHeapView{
			Size:      mh.Size,
			SizeHuman: humanize.IBytes(mh.Size),
			Flags:     bitfield.MemoryHeaps.Label(uint64(mh.Flags)),
		})
	}
	for _, qf := range d.QueueFamilies {
		dv.QueueFamilies = append(dv.QueueFamilies, QueueFamilyView{
			Flags:                       bitfield.QueueFlags.Label(uint64(qf.QueueFlags)),
			Capabilities:                bitfield.QueueFlags.Names(uint64(qf.QueueFlags)),
			QueueCount:                  qf.QueueCount,
			TimestampValidBits:          qf.TimestampValidBits,
			MinImageTransferGranularity: qf.MinImageTransferGranularity.String(),
		})
	}
	return dv
}

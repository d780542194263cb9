package capability

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Zandriy/VK-validator/internal/enumerate"
	"github.com/Zandriy/VK-validator/internal/metrics"
	"github.com/Zandriy/VK-validator/internal/vkapi"
)

// ApplicationName identifies this tool to the driver.
const ApplicationName = "VK_validator"

// InstanceIdentity is the fixed identity every instance is created with.
var InstanceIdentity = vkapi.InstanceInfo{
	ApplicationName:    ApplicationName,
	ApplicationVersion: 1,
	EngineName:         ApplicationName,
	EngineVersion:      1,
	APIVersion:         vkapi.MakeVersion(1, 0, 0),
}

// ErrClosed is the cause recorded when Build is called on a closed Builder.
var ErrClosed = errors.New("builder is closed")

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger; the report id is attached to every line.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithMetrics sets the registry that receives query and stage statistics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Builder) {
		b.metrics = m
	}
}

// Builder owns the driver instance for one report and walks the capability
// surface stage by stage. It is not safe for concurrent use.
type Builder struct {
	drv     vkapi.Driver
	logger  *slog.Logger
	metrics *metrics.Metrics
	id      string

	instance    vkapi.Instance
	hasInstance bool
	closed      bool

	handles []vkapi.PhysicalDevice
	layers  []vkapi.LayerProperties
	report  *Report
}

// NewBuilder creates a Builder over drv. Call Close when done with it.
func NewBuilder(drv vkapi.Driver, opts ...Option) *Builder {
	b := &Builder{
		drv: drv,
		id:  uuid.New().String(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.metrics == nil {
		b.metrics = metrics.New()
	}
	b.logger = b.logger.With("report_id", b.id)
	return b
}

// ID returns the report id.
func (b *Builder) ID() string {
	return b.id
}

// Metrics returns the registry the builder records into.
func (b *Builder) Metrics() *metrics.Metrics {
	return b.metrics
}

// Build runs every stage and returns the report. The report is never nil; when a
// stage fails the error is the *StageError also stored in Report.Failure and the
// report holds what was gathered before it. Repeated calls return the same report.
// A Builder closed before its first Build never creates an instance and reports
// a fatal failure wrapping ErrClosed.
func (b *Builder) Build() (*Report, error) {
	if b.report != nil {
		if b.report.Failure != nil {
			return b.report, b.report.Failure
		}
		return b.report, nil
	}

	r := &Report{ID: b.id, Instance: InstanceIdentity}
	b.report = r
	if b.closed {
		return r, b.fail(r, newStageError(StageUninitialized, CallCreateInstance, ErrClosed))
	}
	defer func() {
		b.logger.Debug("Enumeration statistics", b.metrics.Snapshot().LogAttrs()...)
	}()

	if err := b.drv.Load(); err != nil {
		return r, b.fail(r, newStageError(StageUninitialized, CallLoad, err))
	}

	steps := []struct {
		name string
		run  func(*Report) *StageError
	}{
		{"create_instance", b.createInstance},
		{"devices", b.collectDevices},
		{"layers", b.collectLayers},
		{"extensions", b.describeLayers},
	}

	for _, step := range steps {
		start := time.Now()
		se := step.run(r)
		b.metrics.Timer("stage." + step.name).Record(time.Since(start))
		if se != nil {
			return r, b.fail(r, se)
		}
		r.Stage++
		b.logger.Debug("Stage complete", "stage", r.Stage.String())
	}

	return r, nil
}

func (b *Builder) fail(r *Report, se *StageError) error {
	r.Failure = se
	if !se.Status.Known() {
		b.logger.Error("Driver returned an unmapped status", "call", se.Call, "status", int32(se.Status))
	} else if !se.Status.IsError() {
		b.logger.Warn("Driver returned a non-error status where success was expected", "call", se.Call, "status", se.Status.String())
	}
	attrs := []any{"stage", se.Stage.String(), "call", se.Call, "status", se.Status.String()}
	if se.Err != nil {
		attrs = append(attrs, "error", se.Err)
	}
	b.logger.Error("Capability build failed", attrs...)
	return se
}

// Close releases the driver instance. It is safe to call more than once and
// before or after a failed Build.
func (b *Builder) Close() {
	if b.closed {
		return
	}
	b.closed = true
	if b.hasInstance {
		b.drv.DestroyInstance(b.instance)
		b.hasInstance = false
		b.logger.Debug("Released driver instance")
	}
}

func (b *Builder) createInstance(r *Report) *StageError {
	inst, st := b.drv.CreateInstance(r.Instance)
	if st != vkapi.Success {
		return &StageError{
			Stage:  StageUninitialized,
			Call:   CallCreateInstance,
			Status: st,
			Err:    &enumerate.StatusError{Status: st},
		}
	}
	b.instance = inst
	b.hasInstance = true
	return nil
}

func (b *Builder) collectDevices(r *Report) *StageError {
	handles, err := query(b, "physical_devices", func(count *uint32, out []vkapi.PhysicalDevice) vkapi.Status {
		return b.drv.EnumeratePhysicalDevices(b.instance, count, out)
	})
	if err != nil {
		return newStageError(StageInstanceReady, CallEnumeratePhysicalDevice, err)
	}
	b.logger.Debug("Enumerated physical devices", "count", len(handles))

	// Devices are published only once every one of them is fully described.
	devices := make([]DeviceInfo, 0, len(handles))
	for _, h := range handles {
		families, err := query(b, "queue_families", func(count *uint32, out []vkapi.QueueFamilyProperties) vkapi.Status {
			return b.drv.GetPhysicalDeviceQueueFamilyProperties(h, count, out)
		})
		if err != nil {
			return newStageError(StageInstanceReady, CallQueueFamilyProperties, err)
		}

		dev := DeviceInfo{
			Properties:    b.drv.GetPhysicalDeviceProperties(h),
			Features:      b.drv.GetPhysicalDeviceFeatures(h),
			Memory:        b.drv.GetPhysicalDeviceMemoryProperties(h),
			QueueFamilies: families,
		}
		b.logger.Debug("Found device",
			"name", dev.Name(),
			"type", dev.Properties.DeviceType.Name(),
			"pci_id", dev.PCIID(),
			"available", dev.Available(),
		)
		devices = append(devices, dev)
	}
	r.Devices = devices
	b.handles = handles
	return nil
}

func (b *Builder) collectLayers(*Report) *StageError {
	layers, err := query(b, "layers", b.drv.EnumerateInstanceLayerProperties)
	if err != nil {
		return newStageError(StageDevicesReady, CallEnumerateLayers, err)
	}
	// The implicit level: what the implementation and implicitly enabled layers expose.
	b.layers = append([]vkapi.LayerProperties{{}}, layers...)
	b.logger.Debug("Enumerated layers", "explicit", len(layers))
	return nil
}

// describeLayers fills the extension lists layer by layer. A failure stops the
// pass; layers described before it stay in the report.
func (b *Builder) describeLayers(r *Report) *StageError {
	r.Layers = make([]Layer, 0, len(b.layers))
	for _, props := range b.layers {
		layer := Layer{
			Properties:       props,
			DeviceExtensions: make([][]vkapi.ExtensionProperties, 0, len(b.handles)),
		}

		exts, err := query(b, "instance_extensions", func(count *uint32, out []vkapi.ExtensionProperties) vkapi.Status {
			return b.drv.EnumerateInstanceExtensionProperties(props.LayerName, count, out)
		})
		if err != nil {
			return newStageError(StageLayersKnown, CallInstanceExtensions, err)
		}
		layer.InstanceExtensions = exts

		for _, h := range b.handles {
			exts, err := query(b, "device_extensions", func(count *uint32, out []vkapi.ExtensionProperties) vkapi.Status {
				return b.drv.EnumerateDeviceExtensionProperties(h, props.LayerName, count, out)
			})
			if err != nil {
				return newStageError(StageLayersKnown, CallDeviceExtensions, err)
			}
			layer.DeviceExtensions = append(layer.DeviceExtensions, exts)
		}

		r.Layers = append(r.Layers, layer)
	}
	return nil
}

// query runs q through the paged adapter, counting cycles and incomplete retries
// under query.<name>.
func query[T any](b *Builder, name string, q enumerate.Query[T]) ([]T, error) {
	prefix := "query." + name
	return enumerate.All(func(count *uint32, out []T) vkapi.Status {
		if out == nil {
			b.metrics.Inc(prefix + ".cycles")
		}
		st := q(count, out)
		if st == vkapi.Incomplete {
			b.metrics.Inc(prefix + ".incomplete")
		}
		return st
	})
}

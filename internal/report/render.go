// Package report renders a capability report as text, or as a labeled view for
// structured encoders.
package report

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"

	"github.com/Zandriy/VK-validator/internal/bitfield"
	"github.com/Zandriy/VK-validator/internal/capability"
	"github.com/Zandriy/VK-validator/internal/vkapi"
)

// ImplicitLayerMarker stands in for the name of the implicit layer.
const ImplicitLayerMarker = "TOP"

// featuresPerLine is the width of the feature grid.
const featuresPerLine = 5

// Renderer writes the text report. It never mutates the report.
type Renderer struct {
	out *termenv.Output
}

// NewRenderer returns a Renderer writing through out.
func NewRenderer(out *termenv.Output) *Renderer {
	return &Renderer{out: out}
}

// Render writes r. Output is deterministic for a given report and color profile.
// After a failure the layer list ends at the last fully described layer and the
// failure label is the final line; a fatal report prints only that label.
func (rd *Renderer) Render(r *capability.Report) error {
	w := bufio.NewWriter(rd.out)
	p := palette{out: rd.out}

	if !r.Fatal() {
		rd.instance(w, p, r)
		rd.devices(w, p, r)
		rd.layers(w, p, r)
	}
	if r.Failure != nil {
		_, _ = fmt.Fprintln(w, p.failure(r.Failure.Error()))
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (rd *Renderer) instance(w io.Writer, p palette, r *capability.Report) {
	in := r.Instance
	_, _ = fmt.Fprintf(w, "%s %s v%d | engine %s v%d | API %s\n",
		p.section("====== Instance"),
		in.ApplicationName, in.ApplicationVersion,
		in.EngineName, in.EngineVersion,
		in.APIVersion)
}

func (rd *Renderer) devices(w io.Writer, p palette, r *capability.Report) {
	_, _ = fmt.Fprintln(w, p.section("====== "+plural(len(r.Devices), "GPU")))
	for i := range r.Devices {
		writeDevice(w, p, i, &r.Devices[i])
	}
}

func writeDevice(w io.Writer, p palette, index int, d *capability.DeviceInfo) {
	props := d.Properties
	_, _ = fmt.Fprintln(w, p.device(fmt.Sprintf("--- GPU %d: %s", index, props.DeviceName)))
	_, _ = fmt.Fprintf(w, "  vendor/device:  0x%04X/0x%04X (pci %s)\n", props.VendorID, props.DeviceID, d.PCIID())
	_, _ = fmt.Fprintf(w, "  type:           %s\n", bitfield.DeviceTypeLabel(uint32(props.DeviceType)))
	_, _ = fmt.Fprintf(w, "  api version:    %s\n", props.APIVersion)
	_, _ = fmt.Fprintf(w, "  driver version: %s\n", d.DriverVersion())
	_, _ = fmt.Fprintf(w, "  pipeline uuid:  %s\n", FormatUUID(props.PipelineCacheUUID))

	_, _ = fmt.Fprintln(w, "  limits:")
	for _, l := range limitRows(props.Limits) {
		_, _ = fmt.Fprintf(w, "    %-32s %s\n", l[0], l[1])
	}

	_, _ = fmt.Fprintln(w, "  features:")
	for _, line := range FeatureGrid(d.Features) {
		_, _ = fmt.Fprintf(w, "    %s\n", line)
	}

	_, _ = fmt.Fprintf(w, "  memory types: %d\n", len(d.Memory.Types))
	for i, mt := range d.Memory.Types {
		_, _ = fmt.Fprintf(w, "    [%d] heap %d %s\n", i, mt.HeapIndex, bitfield.MemoryProperties.Label(uint64(mt.PropertyFlags)))
	}
	_, _ = fmt.Fprintf(w, "  memory heaps: %d\n", len(d.Memory.Heaps))
	for i, mh := range d.Memory.Heaps {
		_, _ = fmt.Fprintf(w, "    [%d] %s %s\n", i, humanize.IBytes(mh.Size), bitfield.MemoryHeaps.Label(uint64(mh.Flags)))
	}

	_, _ = fmt.Fprintf(w, "  queue families: %d\n", len(d.QueueFamilies))
	for i, qf := range d.QueueFamilies {
		_, _ = fmt.Fprintf(w, "    [%d] %s queues %d, timestamp bits %d, granularity %s\n",
			i, bitfield.QueueFlags.Label(uint64(qf.QueueFlags)),
			qf.QueueCount, qf.TimestampValidBits, qf.MinImageTransferGranularity)
	}
}

func (rd *Renderer) layers(w io.Writer, p palette, r *capability.Report) {
	for _, l := range r.Layers {
		_, _ = fmt.Fprintln(w, p.layer(LayerHeader(l.Properties)))

		_, _ = fmt.Fprintf(w, "/// Instance Extensions: %s\n", plural(len(l.InstanceExtensions), "extension"))
		writeExtensions(w, l.InstanceExtensions)

		_, _ = fmt.Fprintln(w, "/// Device Extensions ///")
		for i, exts := range l.DeviceExtensions {
			name := ""
			if i < len(r.Devices) {
				name = r.Devices[i].Name()
			}
			_, _ = fmt.Fprintf(w, "+ GPU %d (%s) has %s\n", i, name, plural(len(exts), "extension"))
			writeExtensions(w, exts)
		}
	}
}

func writeExtensions(w io.Writer, exts []vkapi.ExtensionProperties) {
	for _, e := range exts {
		_, _ = fmt.Fprintf(w, "%s:\tver.%d\n", e.ExtensionName, e.SpecVersion)
	}
}

// LayerHeader formats the banner of a layer section.
func LayerHeader(l vkapi.LayerProperties) string {
	if l.Implicit() {
		return "===== Layer " + ImplicitLayerMarker + " ====="
	}
	return fmt.Sprintf("===== Layer %s | spec v.%s | imp v.%d /*%s*/ =====",
		l.LayerName, l.SpecVersion, l.ImplementationVersion, l.Description)
}

// FormatUUID renders a pipeline cache UUID as uppercase hex in 4-byte groups.
func FormatUUID(id [vkapi.UUIDSize]byte) string {
	groups := make([]string, 0, vkapi.UUIDSize/4)
	for i := 0; i < vkapi.UUIDSize; i += 4 {
		groups = append(groups, strings.ToUpper(hex.EncodeToString(id[i:i+4])))
	}
	return strings.Join(groups, "-")
}

// FeatureGrid renders the feature vector as 1/0 tokens, featuresPerLine per line.
func FeatureGrid(f vkapi.Features) []string {
	lines := make([]string, 0, (len(f)+featuresPerLine-1)/featuresPerLine)
	tokens := make([]string, 0, featuresPerLine)
	for i, on := range f {
		if on {
			tokens = append(tokens, "1")
		} else {
			tokens = append(tokens, "0")
		}
		if len(tokens) == featuresPerLine || i == len(f)-1 {
			lines = append(lines, strings.Join(tokens, " "))
			tokens = tokens[:0]
		}
	}
	return lines
}

func limitRows(l vkapi.Limits) [][2]string {
	u := func(v uint32) string { return fmt.Sprintf("%d", v) }
	xyz := func(v [3]uint32) string { return fmt.Sprintf("%d x %d x %d", v[0], v[1], v[2]) }
	return [][2]string{
		{"maxImageDimension1D", u(l.MaxImageDimension1D)},
		{"maxImageDimension2D", u(l.MaxImageDimension2D)},
		{"maxImageDimension3D", u(l.MaxImageDimension3D)},
		{"maxImageDimensionCube", u(l.MaxImageDimensionCube)},
		{"maxImageArrayLayers", u(l.MaxImageArrayLayers)},
		{"maxTexelBufferElements", u(l.MaxTexelBufferElements)},
		{"maxUniformBufferRange", u(l.MaxUniformBufferRange)},
		{"maxStorageBufferRange", u(l.MaxStorageBufferRange)},
		{"maxPushConstantsSize", u(l.MaxPushConstantsSize)},
		{"maxMemoryAllocationCount", u(l.MaxMemoryAllocationCount)},
		{"maxBoundDescriptorSets", u(l.MaxBoundDescriptorSets)},
		{"maxComputeSharedMemorySize", u(l.MaxComputeSharedMemorySize)},
		{"maxComputeWorkGroupCount", xyz(l.MaxComputeWorkGroupCount)},
		{"maxComputeWorkGroupInvocations", u(l.MaxComputeWorkGroupInvocations)},
		{"maxComputeWorkGroupSize", xyz(l.MaxComputeWorkGroupSize)},
		{"maxViewports", u(l.MaxViewports)},
		{"maxFramebufferWidth", u(l.MaxFramebufferWidth)},
		{"maxFramebufferHeight", u(l.MaxFramebufferHeight)},
		{"bufferImageGranularity", fmt.Sprintf("%d", l.BufferImageGranularity)},
		{"timestampPeriod", fmt.Sprintf("%g", l.TimestampPeriod)},
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

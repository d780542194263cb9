package report

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Zandriy/VK-validator/internal/capability"
	"github.com/Zandriy/VK-validator/internal/vkapi"
)

const oneDeviceOneLayer = `
extensions:
  - {name: VK_KHR_surface, spec_version: 25}
  - {name: VK_KHR_xcb_surface, spec_version: 6}
devices:
  - name: NVIDIA GeForce RTX 3080
    vendor_id: 0x10de
    device_id: 0x2206
    type: discrete
    api_version: 1.3.242
    driver_version: 2245656896
    pipeline_cache_uuid: 00112233445566778899aabbccddeeff
    limits:
      max_image_dimension_2d: 32768
      max_compute_work_group_size: [1024, 1024, 64]
    features: [robustBufferAccess, geometryShader, inheritedQueries]
    memory_types:
      - {property_flags: 1, heap_index: 0}
      - {property_flags: 6, heap_index: 1}
    memory_heaps:
      - {size: 10737418240, flags: 1}
      - {size: 33554432, flags: 0}
    queue_families:
      - queue_flags: 15
        queue_count: 16
        timestamp_valid_bits: 64
        min_image_transfer_granularity: {width: 1, height: 1, depth: 1}
    extensions:
      "":
        - {name: VK_KHR_swapchain, spec_version: 70}
layers:
  - name: VK_LAYER_KHRONOS_validation
    spec_version: 1.3.240
    implementation_version: 1
    description: Khronos Validation Layer
    extensions:
      - {name: VK_EXT_debug_report, spec_version: 10}
      - {name: VK_EXT_debug_utils, spec_version: 2}
      - {name: VK_EXT_validation_features, spec_version: 5}
`

func buildReport(t *testing.T, src string) *capability.Report {
	t.Helper()
	f, err := vkapi.ParseFixture([]byte(src))
	if err != nil {
		t.Fatalf("ParseFixture() error: %v", err)
	}
	drv, err := vkapi.NewFixtureDriver(f)
	if err != nil {
		t.Fatalf("NewFixtureDriver() error: %v", err)
	}
	b := capability.NewBuilder(drv, capability.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	defer b.Close()
	r, _ := b.Build()
	return r
}

func render(t *testing.T, r *capability.Report) string {
	t.Helper()
	var buf bytes.Buffer
	if err := NewRenderer(NewOutput(&buf, ColorNever)).Render(r); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	return buf.String()
}

func TestRender_OneDeviceOneLayer(t *testing.T) {
	out := render(t, buildReport(t, oneDeviceOneLayer))

	mustContain := []string{
		"====== Instance VK_validator v1 | engine VK_validator v1 | API 1.0.0\n",
		"====== 1 GPU\n",
		"--- GPU 0: NVIDIA GeForce RTX 3080\n",
		"0x10DE/0x2206 (pci 10de:2206)",
		"type:           (DISCRETE_GPU)",
		"api version:    1.3.242",
		"driver version: 535.104.5.0",
		"pipeline uuid:  00112233-44556677-8899AABB-CCDDEEFF",
		"maxImageDimension2D              32768",
		"maxComputeWorkGroupSize          1024 x 1024 x 64",
		"    1 0 0 0 1\n",
		"[0] heap 0 (DEVICE_LOCAL)",
		"[1] heap 1 (HOST_VISIBLE | HOST_COHERENT)",
		"[0] 10 GiB (DEVICE_LOCAL)",
		"[1] 32 MiB ()",
		"[0] (GRAPHICS | COMPUTE | TRANSFER | SPARSE_BINDING) queues 16, timestamp bits 64, granularity 1x1x1",
		"===== Layer TOP =====\n/// Instance Extensions: 2 extensions\nVK_KHR_surface:\tver.25\nVK_KHR_xcb_surface:\tver.6\n",
		"/// Device Extensions ///\n+ GPU 0 (NVIDIA GeForce RTX 3080) has 1 extension\nVK_KHR_swapchain:\tver.70\n",
		"===== Layer VK_LAYER_KHRONOS_validation | spec v.1.3.240 | imp v.1 /*Khronos Validation Layer*/ =====\n/// Instance Extensions: 3 extensions\n",
		"+ GPU 0 (NVIDIA GeForce RTX 3080) has 0 extensions\n",
	}
	for _, s := range mustContain {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q\n%s", s, out)
		}
	}

	if n := strings.Count(out, "--- GPU "); n != 1 {
		t.Errorf("Expected 1 device block, got %d", n)
	}
	if n := strings.Count(out, "===== Layer "); n != 2 {
		t.Errorf("Expected 2 layer blocks, got %d", n)
	}
	if strings.Contains(out, "error:") {
		t.Errorf("Expected no failure line\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("Expected no escape sequences with color disabled")
	}
}

func TestRender_SingleExplicitLayer(t *testing.T) {
	src, err := os.ReadFile("../../testdata/single-layer.yaml")
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	r := buildReport(t, string(src))
	if !r.Complete() {
		t.Fatalf("Expected a complete report, failure %v", r.Failure)
	}
	out := render(t, r)

	if n := strings.Count(out, "--- GPU "); n != 1 {
		t.Errorf("Expected 1 device block, got %d", n)
	}
	if n := strings.Count(out, "===== Layer "); n != 2 {
		t.Errorf("Expected 2 layer blocks, got %d", n)
	}

	header := "===== Layer VK_LAYER_LUNARG_api_dump | spec v.1.3.230 | imp v.2 /*LunarG API dump layer*/ =====\n"
	i := strings.Index(out, header)
	if i < 0 {
		t.Fatalf("Expected the explicit layer header\n%s", out)
	}
	explicit := out[i:]

	tests := []struct {
		name string
		want string
	}{
		{"instance scope", "/// Instance Extensions: 2 extensions\nVK_EXT_debug_report:\tver.10\nVK_EXT_debug_utils:\tver.2\n"},
		{"device scope", "+ GPU 0 (Intel(R) UHD Graphics 630) has 3 extensions\n"},
		{"device extension", "VK_EXT_tooling_info:\tver.1\nVK_EXT_debug_marker:\tver.4\nVK_KHR_maintenance1:\tver.2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(explicit, tt.want) {
				t.Errorf("Expected the explicit layer block to contain %q\n%s", tt.want, explicit)
			}
		})
	}

	implicit := out[:i]
	if !strings.Contains(implicit, "===== Layer TOP =====\n/// Instance Extensions: 1 extension\n") {
		t.Errorf("Expected the implicit layer first\n%s", out)
	}
	if !strings.Contains(implicit, "+ GPU 0 (Intel(R) UHD Graphics 630) has 1 extension\n") {
		t.Errorf("Expected the implicit device scope to hold only its own extension\n%s", out)
	}
}

func TestRender_ZeroDevices(t *testing.T) {
	out := render(t, buildReport(t, `extensions: [{name: VK_KHR_surface, spec_version: 25}]`))

	if !strings.Contains(out, "====== 0 GPUs\n") {
		t.Errorf("Expected \"0 GPUs\"\n%s", out)
	}
	if strings.Contains(out, "+ GPU") || strings.Contains(out, "--- GPU") {
		t.Errorf("Expected no per-device sections\n%s", out)
	}
	if !strings.Contains(out, "===== Layer TOP =====\n/// Instance Extensions: 1 extension\n") {
		t.Errorf("Expected the implicit layer\n%s", out)
	}
}

func TestRender_FatalFailureOnly(t *testing.T) {
	out := render(t, buildReport(t, "instance_status: VK_ERROR_INITIALIZATION_FAILED\n"))

	if out != "vkCreateInstance error: VK_ERROR_INITIALIZATION_FAILED\n" {
		t.Errorf("Expected only the failure label, got %q", out)
	}
}

func TestRender_PartialFailureAfterSections(t *testing.T) {
	out := render(t, buildReport(t, oneDeviceOneLayer+`
faults:
  - {query: instance_extensions, layer: VK_LAYER_KHRONOS_validation, status: VK_ERROR_LAYER_NOT_PRESENT}
`))

	if !strings.HasSuffix(out, "vkEnumerateInstanceExtensionProperties error: VK_ERROR_LAYER_NOT_PRESENT\n") {
		t.Errorf("Expected the failure label last\n%s", out)
	}
	if n := strings.Count(out, "===== Layer "); n != 1 {
		t.Errorf("Expected only the completed layer, got %d", n)
	}
	if !strings.Contains(out, "--- GPU 0") {
		t.Errorf("Expected earlier sections to be printed")
	}
}

func TestRender_ColorAlways(t *testing.T) {
	var buf bytes.Buffer
	r := buildReport(t, oneDeviceOneLayer)
	if err := NewRenderer(NewOutput(&buf, ColorAlways)).Render(r); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("Expected escape sequences with color forced on")
	}
}

func TestFeatureGrid(t *testing.T) {
	var f vkapi.Features
	f[0] = true
	f[vkapi.FeatureCount-1] = true

	lines := FeatureGrid(f)
	if len(lines) != 11 {
		t.Fatalf("Expected 11 lines, got %d", len(lines))
	}
	if lines[0] != "1 0 0 0 0" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if lines[10] != "0 0 0 0 1" {
		t.Errorf("unexpected last line %q", lines[10])
	}
	for i, l := range lines {
		if len(strings.Fields(l)) != 5 {
			t.Errorf("line %d: expected 5 tokens, got %q", i, l)
		}
	}
}

func TestFormatUUID(t *testing.T) {
	var id [vkapi.UUIDSize]byte
	for i := range id {
		id[i] = byte(0xA0 + i)
	}
	if got := FormatUUID(id); got != "A0A1A2A3-A4A5A6A7-A8A9AAAB-ACADAEAF" {
		t.Errorf("unexpected uuid %s", got)
	}
}

func TestLayerHeader(t *testing.T) {
	if got := LayerHeader(vkapi.LayerProperties{}); got != "===== Layer TOP =====" {
		t.Errorf("unexpected implicit header %q", got)
	}
	l := vkapi.LayerProperties{
		LayerName:             "VK_LAYER_X",
		SpecVersion:           vkapi.MakeVersion(1, 2, 3),
		ImplementationVersion: 4,
		Description:           "desc",
	}
	if got := LayerHeader(l); got != "===== Layer VK_LAYER_X | spec v.1.2.3 | imp v.4 /*desc*/ =====" {
		t.Errorf("unexpected header %q", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"", ColorAuto, false},
		{"AUTO", ColorAuto, false},
		{"always", ColorAlways, false},
		{"never", ColorNever, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.input)
		if (err != nil) != tt.wantErr || got != tt.expected {
			t.Errorf("ParseColor(%q) = %q, %v", tt.input, got, err)
		}
	}
}

func TestNewView(t *testing.T) {
	v := NewView(buildReport(t, oneDeviceOneLayer))

	if !v.Complete || v.Failure != nil {
		t.Errorf("Expected a complete view, got %+v", v.Failure)
	}
	if len(v.Devices) != 1 || len(v.Layers) != 2 {
		t.Fatalf("unexpected shape: %d devices, %d layers", len(v.Devices), len(v.Layers))
	}
	d := v.Devices[0]
	if d.Type != "(DISCRETE_GPU)" || d.VendorID != "0x10DE" || d.MemoryHeaps[0].SizeHuman != "10 GiB" {
		t.Errorf("unexpected device view %+v", d)
	}
	if got := strings.Join(d.QueueFamilies[0].Capabilities, ","); got != "GRAPHICS,COMPUTE,TRANSFER,SPARSE_BINDING" {
		t.Errorf("Expected queue capabilities GRAPHICS,COMPUTE,TRANSFER,SPARSE_BINDING, got %s", got)
	}
	if len(d.Features) != 3 || d.Features[2] != "inheritedQueries" {
		t.Errorf("unexpected features %v", d.Features)
	}
	if !v.Layers[0].Implicit || v.Layers[0].Name != "" {
		t.Errorf("Expected the implicit layer first")
	}
	if v.Layers[1].SpecVersion != "1.3.240" {
		t.Errorf("unexpected spec version %q", v.Layers[1].SpecVersion)
	}
	if v.Layers[0].DeviceExtensions[0].Name != "NVIDIA GeForce RTX 3080" {
		t.Errorf("Expected device extensions to carry the device name")
	}

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), `"flags":"(GRAPHICS | COMPUTE | TRANSFER | SPARSE_BINDING)"`) {
		t.Errorf("Expected decoded queue flags in JSON: %s", data)
	}

	out, err := yaml.Marshal(v)
	if err != nil {
		t.Fatalf("yaml.Marshal() error: %v", err)
	}
	if !strings.Contains(string(out), "name: NVIDIA GeForce RTX 3080") {
		t.Errorf("Expected the device name in YAML:\n%s", out)
	}
}

func TestNewView_Fatal(t *testing.T) {
	v := NewView(buildReport(t, "load_error: no loader\n"))

	if v.Complete || v.Failure == nil {
		t.Fatal("Expected a failed view")
	}
	if v.Failure.Status != "VK_ERROR_INITIALIZATION_FAILED" || v.Failure.Call != capability.CallLoad {
		t.Errorf("unexpected failure %+v", v.Failure)
	}
	if len(v.Devices) != 0 || len(v.Layers) != 0 {
		t.Errorf("Expected nothing but the failure")
	}
}

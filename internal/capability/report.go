// Package capability walks a driver's capability surface into a Report: the
// instance, its physical devices and every capability layer with the instance and
// device extensions it exposes.
package capability

import (
	"errors"
	"fmt"

	"github.com/Zandriy/VK-validator/internal/enumerate"
	"github.com/Zandriy/VK-validator/internal/vkapi"
)

// Stage is a step of the linear build.
type Stage int

// Build stages, in order.
const (
	StageUninitialized Stage = iota
	StageInstanceReady
	StageDevicesReady
	StageLayersKnown
	StageReportReady
)

func (s Stage) String() string {
	switch s {
	case StageUninitialized:
		return "uninitialized"
	case StageInstanceReady:
		return "instance-ready"
	case StageDevicesReady:
		return "devices-ready"
	case StageLayersKnown:
		return "layers-known"
	case StageReportReady:
		return "report-ready"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Native call names used in failure labels.
const (
	CallLoad                    = "vkLoad"
	CallCreateInstance          = "vkCreateInstance"
	CallEnumeratePhysicalDevice = "vkEnumeratePhysicalDevices"
	CallQueueFamilyProperties   = "vkGetPhysicalDeviceQueueFamilyProperties"
	CallEnumerateLayers         = "vkEnumerateInstanceLayerProperties"
	CallInstanceExtensions      = "vkEnumerateInstanceExtensionProperties"
	CallDeviceExtensions        = "vkEnumerateDeviceExtensionProperties"
)

// StageError records the native call that stopped the build.
type StageError struct {
	Stage  Stage
	Call   string
	Status vkapi.Status
	Err    error
}

// Error returns the failure label, e.g. "vkCreateInstance error: VK_ERROR_INITIALIZATION_FAILED".
func (e *StageError) Error() string {
	return fmt.Sprintf("%s error: %s", e.Call, e.Status)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// newStageError maps err to a StageError. Errors that carry no status are
// reported as VK_ERROR_INITIALIZATION_FAILED.
func newStageError(stage Stage, call string, err error) *StageError {
	se := &StageError{Stage: stage, Call: call, Status: vkapi.ErrorInitializationFailed, Err: err}
	var statusErr *enumerate.StatusError
	if errors.As(err, &statusErr) {
		se.Status = statusErr.Status
	}
	return se
}

// Layer is one capability layer with what it exposes. DeviceExtensions is indexed
// like Report.Devices.
type Layer struct {
	Properties         vkapi.LayerProperties
	InstanceExtensions []vkapi.ExtensionProperties
	DeviceExtensions   [][]vkapi.ExtensionProperties
}

// Report is the result of one build. It is read-only once Build returns.
type Report struct {
	ID       string
	Instance vkapi.InstanceInfo
	Devices  []DeviceInfo
	Layers   []Layer
	// Stage is the last stage reached.
	Stage   Stage
	Failure *StageError
}

// Complete reports whether the build reached the end without a failure.
func (r *Report) Complete() bool {
	return r.Failure == nil && r.Stage == StageReportReady
}

// Fatal reports whether the build failed before an instance existed, in which case
// the report holds nothing but the failure.
func (r *Report) Fatal() bool {
	return r.Failure != nil && r.Failure.Stage == StageUninitialized
}

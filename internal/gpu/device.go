// Package gpu implements the GPU compute multiply kernel on WebGPU.
// Uses go-webgpu (github.com/go-webgpu/webgpu) for zero-CGO WebGPU bindings.
//
// The device, compiled shader, and compute pipeline are process-wide
// resources: they are initialized lazily on first use and reused for the
// lifetime of the process. Initialization follows a strict state machine,
// Uninitialized -> Initializing -> Ready or Unavailable. Once Unavailable,
// every subsequent request fails fast without re-probing the hardware.
package gpu

import (
	"fmt"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// State is the lifecycle state of the process-wide GPU resources.
type State int32

// GPU initialization states.
const (
	Uninitialized State = iota
	Initializing
	Ready
	Unavailable
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Device owns the WebGPU handles and the compiled matmul pipeline.
// Immutable after successful initialization.
type Device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	shader   *wgpu.ShaderModule
	pipeline *wgpu.ComputePipeline

	adapterInfo *wgpu.AdapterInfoGo
}

var global struct {
	mu    sync.Mutex
	state State
	dev   *Device
	err   error
}

// Open returns the process-wide GPU device, initializing it on first call.
// Concurrent first calls block until the state settles; later calls observe
// the cached outcome without touching the hardware again.
func Open() (*Device, error) {
	global.mu.Lock()
	defer global.mu.Unlock()

	switch global.state {
	case Ready:
		return global.dev, nil
	case Unavailable:
		return nil, global.err
	}

	global.state = Initializing
	dev, err := newDevice()
	if err != nil {
		global.state = Unavailable
		global.err = err
		return nil, err
	}
	global.state = Ready
	global.dev = dev
	return dev, nil
}

// Available reports whether a usable GPU device exists, driving the
// Uninitialized -> Ready/Unavailable transition as a side effect.
func Available() bool {
	_, err := Open()
	return err == nil
}

// CurrentState returns the lifecycle state without triggering a probe.
func CurrentState() State {
	global.mu.Lock()
	defer global.mu.Unlock()
	return global.state
}

// newDevice creates the WebGPU instance, adapter, device, and queue, and
// compiles the matmul pipeline so per-call work is buffers and dispatch only.
func newDevice() (dev *Device, err error) {
	// Recover from panic if the wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			dev = nil
			err = fmt.Errorf("gpu: native library not available: %v", r)
		}
	}()

	instance, instErr := wgpu.CreateInstance(nil)
	if instErr != nil {
		return nil, fmt.Errorf("gpu: failed to create instance: %w", instErr)
	}

	adapter, adapterErr := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if adapterErr != nil {
		instance.Release()
		return nil, fmt.Errorf("gpu: failed to request adapter: %w", adapterErr)
	}

	adapterInfo, _ := adapter.GetInfo()

	device, deviceErr := adapter.RequestDevice(nil)
	if deviceErr != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("gpu: failed to request device: %w", deviceErr)
	}

	queue := device.GetQueue()
	if queue == nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("gpu: failed to get queue")
	}

	shader := device.CreateShaderModuleWGSL(matmulShader)
	pipeline := device.CreateComputePipelineSimple(nil, shader, "main")

	return &Device{
		instance:    instance,
		adapter:     adapter,
		device:      device,
		queue:       queue,
		shader:      shader,
		pipeline:    pipeline,
		adapterInfo: adapterInfo,
	}, nil
}

// Name returns the adapter name for diagnostics.
func (d *Device) Name() string {
	if d.adapterInfo != nil {
		return fmt.Sprintf("WebGPU (%s %s)", d.adapterInfo.Device, d.adapterInfo.Vendor)
	}
	return "WebGPU"
}

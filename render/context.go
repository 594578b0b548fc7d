// Package render is the render side of the bridge: it snapshots the
// simulation state once per frame, keeps the render graph in sync with the
// live render targets and turns each target's primitives into draw calls.
package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var forceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

var wgpuLogLevels = map[string]wgpu.LogLevel{
	"OFF":   wgpu.LogLevelOff,
	"ERROR": wgpu.LogLevelError,
	"WARN":  wgpu.LogLevelWarn,
	"INFO":  wgpu.LogLevelInfo,
	"DEBUG": wgpu.LogLevelDebug,
	"TRACE": wgpu.LogLevelTrace,
}

func init() {
	if level, ok := wgpuLogLevels[strings.ToUpper(os.Getenv("WGPU_LOG_LEVEL"))]; ok {
		wgpu.SetLogLevel(level)
	}
}

// GPU encapsulates the low level state of the webgpu context, this includes
// the Device, Surface and active Adapter.
type GPU struct {
	*wgpu.Device
	*wgpu.Queue
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter
}

// NewGPU initializes webgpu for the surface description. sd may be nil for a
// headless device without a surface.
func NewGPU(sd *wgpu.SurfaceDescriptor) (*GPU, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	gpu := &GPU{}

	if sd != nil {
		gpu.Surface = instance.CreateSurface(sd)
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    gpu.Surface,
	})
	if err != nil {
		gpu.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	gpu.Adapter = adapter

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		gpu.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}

	gpu.Device = device
	gpu.Queue = device.GetQueue()

	return gpu, nil
}

func (d *GPU) Release() {
	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}

	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}

	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}

	if d.Surface != nil {
		d.Surface.Release()
		d.Surface = nil
	}
}

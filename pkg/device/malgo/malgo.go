// Package malgo is the reference device.IO: a cross-platform, full-duplex
// audio callback backend built on gen2brain/malgo. It is explicitly a
// reference implementation of an out-of-core external interface, grounded
// on tphakala-birdnet-go's malgo-based capture source — generalized here
// from capture-only to simultaneous capture+playback, since the host's
// device.Callback needs both directions every block.
package malgo

import (
	"encoding/binary"
	"errors"
	"math"
	"runtime"
	"strings"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/atsu-uapmd/pluginhost/pkg/device"
	"github.com/atsu-uapmd/pluginhost/pkg/hosterr"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
)

// Config selects the hardware devices and channel counts a Device opens.
// Empty device name fields mean "use the platform default".
type Config struct {
	PlaybackDeviceName string
	CaptureDeviceName  string
	InputChannels      int
	OutputChannels     int
}

// Device is a device.IO backed by one full-duplex malgo stream.
type Device struct {
	cfg Config

	mu      sync.Mutex
	ctx     *malgo.AllocatedContext
	native  *malgo.Device
	procCtx *process.Context
	cb      device.Callback
}

// New returns a Device for cfg. InputChannels/OutputChannels default to
// stereo (2) when unset.
func New(cfg Config) *Device {
	if cfg.InputChannels == 0 {
		cfg.InputChannels = 2
	}
	if cfg.OutputChannels == 0 {
		cfg.OutputChannels = 2
	}
	return &Device{cfg: cfg}
}

func backendsForPlatform() []malgo.Backend {
	switch runtime.GOOS {
	case "windows":
		return []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		return []malgo.Backend{malgo.BackendCoreaudio}
	default:
		return []malgo.Backend{malgo.BackendAlsa, malgo.BackendPulseaudio}
	}
}

// Start opens a full-duplex malgo device at sampleRate with a nominal
// period of bufferFrames, and invokes cb once per hardware block for the
// lifetime of the stream.
func (d *Device) Start(sampleRate float64, bufferFrames int, cb device.Callback) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.native != nil {
		return hosterr.New(errors.New("device/malgo: stream already started")).
			WithStatus(hosterr.StatusAlreadyInstantiated).
			WithCategory(hosterr.CategoryDevice).
			WithComponent("device/malgo").
			Build()
	}

	ctx, err := malgo.InitContext(backendsForPlatform(), malgo.ContextConfig{}, nil)
	if err != nil {
		return hosterr.New(err).
			WithStatus(hosterr.StatusFailedToInstantiate).
			WithCategory(hosterr.CategoryDevice).
			WithComponent("device/malgo").
			WithContext("operation", "init_context").
			Build()
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Duplex)
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(bufferFrames)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = uint32(d.cfg.InputChannels)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = uint32(d.cfg.OutputChannels)

	if captureInfo, err := selectDevice(ctx, malgo.Capture, d.cfg.CaptureDeviceName); err == nil {
		deviceConfig.Capture.DeviceID = captureInfo.ID.Pointer()
	}
	if playbackInfo, err := selectDevice(ctx, malgo.Playback, d.cfg.PlaybackDeviceName); err == nil {
		deviceConfig.Playback.DeviceID = playbackInfo.ID.Pointer()
	}

	master := process.NewMasterContext(sampleRate)
	procCtx := process.NewContext(bufferFrames, master)
	procCtx.Input = [][][]float32{planarBuffer(d.cfg.InputChannels, bufferFrames)}
	procCtx.Output = [][][]float32{planarBuffer(d.cfg.OutputChannels, bufferFrames)}
	d.procCtx = procCtx
	d.cb = cb

	callbacks := malgo.DeviceCallbacks{
		Data: d.onData,
		Stop: func() {},
	}

	native, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		_ = ctx.Uninit()
		return hosterr.New(err).
			WithStatus(hosterr.StatusFailedToInstantiate).
			WithCategory(hosterr.CategoryDevice).
			WithComponent("device/malgo").
			WithContext("operation", "init_device").
			Build()
	}

	if err := native.Start(); err != nil {
		native.Uninit()
		_ = ctx.Uninit()
		return hosterr.New(err).
			WithStatus(hosterr.StatusFailedToStartProcessing).
			WithCategory(hosterr.CategoryDevice).
			WithComponent("device/malgo").
			WithContext("operation", "start_device").
			Build()
	}

	d.ctx = ctx
	d.native = native
	return nil
}

// Stop halts and tears down the stream. Safe to call even if Start never
// succeeded.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.native == nil {
		return nil
	}
	_ = d.native.Stop()
	d.native.Uninit()
	d.native = nil

	if d.ctx != nil {
		_ = d.ctx.Uninit()
		d.ctx = nil
	}
	return nil
}

// onData is malgo's per-block duplex callback: it deinterleaves the
// captured bytes into the process.Context's input planes, runs the
// host callback, then interleaves the context's output planes back out.
// A callback error clears the output block rather than aborting the
// stream — one bad block must never stop audio I/O.
func (d *Device) onData(pOutputSample, pInputSample []byte, frameCount uint32) {
	ctx := d.procCtx
	n := int(frameCount)
	if n > len(ctx.Output[0][0]) {
		n = len(ctx.Output[0][0])
	}
	ctx.FrameCount = n

	deinterleaveF32(pInputSample, ctx.Input[0], n)

	if err := d.cb(ctx); err != nil {
		ctx.ClearOutput()
	}

	interleaveF32(ctx.Output[0], pOutputSample, n)
}

// planarBuffer allocates channels planes of frames float32s each.
func planarBuffer(channels, frames int) [][]float32 {
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frames)
	}
	return out
}

// deinterleaveF32 unpacks a little-endian interleaved F32 byte buffer
// into per-channel planes, one of frames samples each.
func deinterleaveF32(src []byte, planes [][]float32, frames int) {
	channels := len(planes)
	if channels == 0 {
		return
	}
	available := len(src) / 4 / channels
	if available < frames {
		frames = available
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 4
			bits := binary.LittleEndian.Uint32(src[off : off+4])
			planes[ch][i] = math.Float32frombits(bits)
		}
	}
}

// interleaveF32 packs per-channel planes into a little-endian interleaved
// F32 byte buffer, zeroing any tail the planes don't cover.
func interleaveF32(planes [][]float32, dst []byte, frames int) {
	channels := len(planes)
	if channels == 0 {
		clear(dst)
		return
	}
	fit := len(dst) / 4 / channels
	if fit < frames {
		frames = fit
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 4
			binary.LittleEndian.PutUint32(dst[off:off+4], math.Float32bits(planes[ch][i]))
		}
	}
	clear(dst[frames*channels*4:])
}

// selectDevice enumerates ctx's devices of the given kind and returns the
// one matching name — falling back to the platform default when name is
// empty, "default", or matches nothing by exact/partial name.
func selectDevice(ctx *malgo.AllocatedContext, kind malgo.DeviceType, name string) (malgo.DeviceInfo, error) {
	infos, err := ctx.Devices(kind)
	if err != nil {
		return malgo.DeviceInfo{}, err
	}
	if len(infos) == 0 {
		return malgo.DeviceInfo{}, errors.New("device/malgo: no devices available")
	}
	if name == "" || name == "default" {
		for i := range infos {
			if infos[i].IsDefault == 1 {
				return infos[i], nil
			}
		}
		return infos[0], nil
	}
	for i := range infos {
		if infos[i].Name() == name {
			return infos[i], nil
		}
	}
	for i := range infos {
		if strings.Contains(infos[i].Name(), name) {
			return infos[i], nil
		}
	}
	return malgo.DeviceInfo{}, errors.New("device/malgo: no matching device found for " + name)
}

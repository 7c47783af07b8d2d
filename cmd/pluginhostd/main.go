// Command pluginhostd runs the plugin-hosting core as a long-lived
// daemon: it scans the plugin catalog, opens a full-duplex audio device,
// drives the sequencer from the device callback, and exposes a small
// HTTP control surface for pluginhostctl and Prometheus.
//
// This command is explicitly a reference wiring of the core's narrow
// external interfaces, not part of the core itself — grounded on
// tphakala-birdnet-go's cmd/root.go + cmd/<name> cobra layout.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/atsu-uapmd/pluginhost/pkg/catalog"
	"github.com/atsu-uapmd/pluginhost/pkg/catalog/fsscan"
	"github.com/atsu-uapmd/pluginhost/pkg/device"
	malgodevice "github.com/atsu-uapmd/pluginhost/pkg/device/malgo"
	"github.com/atsu-uapmd/pluginhost/pkg/format"
	"github.com/atsu-uapmd/pluginhost/pkg/hostconfig"
	"github.com/atsu-uapmd/pluginhost/pkg/hosterr"
	"github.com/atsu-uapmd/pluginhost/pkg/hostlog"
	"github.com/atsu-uapmd/pluginhost/pkg/hostmetrics"
	"github.com/atsu-uapmd/pluginhost/pkg/process"
	"github.com/atsu-uapmd/pluginhost/pkg/sequencer"
)

func main() {
	settings := hostconfig.Defaults()

	root := &cobra.Command{
		Use:   "pluginhostd",
		Short: "Runs the plugin-hosting core as a background audio daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), settings)
		},
	}

	if err := hostconfig.BindFlags(root, settings); err != nil {
		fmt.Fprintf(os.Stderr, "bind flags: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "pluginhostd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, settings *hostconfig.Settings) error {
	logger := hostlog.New(hostlog.Config{
		Level:    parseLevel(settings.LogLevel),
		FilePath: settings.LogFilePath,
	})

	metrics := hostmetrics.NewPrometheusRecorder(prometheus.DefaultRegisterer)

	cat := catalog.New()
	scanners := catalogScanners(settings)
	session := cat.ScanAll(ctx, scanners)
	logger.Info("catalog scan complete",
		"entries", len(cat.All()), "errors", len(session.Errors), "session_id", session.ID)
	for _, scanErr := range session.Errors {
		logger.Warn("catalog scan error", "error", scanErr)
	}

	engine := sequencer.New(settings.SampleRate)

	io := malgodevice.New(malgodevice.Config{
		InputChannels:  int(settings.DefaultInputBus),
		OutputChannels: int(settings.DefaultOutputBus),
	})
	if err := io.Start(settings.SampleRate, settings.BufferFrames, engineCallback(engine, metrics)); err != nil {
		return fmt.Errorf("start device: %w", err)
	}
	defer io.Stop()

	control := newControlServer(logger, cat, engine)
	server := &http.Server{Addr: settings.MetricsAddr, Handler: control.mux()}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("control server stopped", "error", err)
		}
	}()
	defer server.Close()

	logger.Info("pluginhostd running", "sample_rate", settings.SampleRate, "buffer_frames", settings.BufferFrames, "control_addr", settings.MetricsAddr)

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

// catalogScanners builds the reference fsscan.Scanner for every plugin
// family at the configured search paths, falling back to platform
// defaults when settings.CatalogPaths is empty.
func catalogScanners(settings *hostconfig.Settings) []catalog.Scanner {
	families := []format.Family{format.FamilyV3C, format.FamilyCFE}
	scanners := make([]catalog.Scanner, 0, len(families))
	for _, f := range families {
		scanners = append(scanners, fsscan.New(f, settings.CatalogPaths...))
	}
	return scanners
}

// engineCallback bridges device.Callback's process.Context shape to
// Engine.ProcessBlock's raw bus-0 channel buffers — the device-callback
// dispatcher spec.md's layer table names as L4.
func engineCallback(engine *sequencer.Engine, metrics hostmetrics.Recorder) device.Callback {
	return func(ctx *process.Context) error {
		var in, out [][]float32
		if len(ctx.Input) > 0 {
			in = ctx.Input[0]
		}
		if len(ctx.Output) > 0 {
			out = ctx.Output[0]
		}
		status := engine.ProcessBlock(ctx.FrameCount, in, out)
		metrics.RecordBlockProcessed("device")
		if status != hosterr.StatusOK {
			metrics.RecordProcessFailure("device", string(status))
			return fmt.Errorf("process block: %s", status)
		}
		return nil
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "trace":
		return hostlog.LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "fatal":
		return hostlog.LevelFatal
	default:
		return slog.LevelInfo
	}
}

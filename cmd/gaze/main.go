// Face tracking eyes: a pair of eyes that follow the face seen by the webcam.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/tracking"
)

func main() {
	envErr := config.LoadDotEnv()

	cfg, logLevel, logFile := parseFlags()
	log.InitWithFile(logLevel, logFile)
	if envErr != nil {
		log.Warn("could not load .env", "error", envErr)
	}

	app, err := gaze.New(cfg, gaze.WithLogger(log.L()))
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Init(ctx); err != nil {
		log.Error("initialization failed", "error", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	if err := app.Run(ctx); err != nil {
		log.Error("runtime error", "error", err)
	}
}

// parseFlags parses command line flags on top of the environment and returns
// the configuration plus the log settings.
func parseFlags() (gaze.Config, string, string) {
	cfg := gaze.DefaultConfig()
	cfg.LoadEnvConfig()

	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	debugTracking := flag.Bool("debug-tracking", false, "Log every detection (very verbose)")
	host := flag.String("host", string(cfg.Host), "Render host: desktop, web, headless")
	backend := flag.String("backend", string(cfg.Backend), "Face detector: pigo, yunet, none")
	cameraIndex := flag.Int("camera", cfg.Camera.DeviceIndex, "Camera index (overrides CAMERA_INDEX)")
	width := flag.Int("width", 0, "Capture width (0 = highest available)")
	height := flag.Int("height", 0, "Capture height (0 = highest available)")
	model := flag.String("model", cfg.Detection.ModelPath, "Pigo cascade path (overrides GAZE_MODEL_PATH)")
	yunetModel := flag.String("yunet-model", cfg.YuNet.ModelPath, "YuNet ONNX model path")
	addr := flag.String("addr", cfg.Web.Addr, "Web host listen address (GAZE_PORT sets the port)")
	driverURL := flag.String("driver-url", cfg.DriverURL, "Eye controller websocket URL (overrides EYE_DRIVER_URL)")
	fps := flag.Int("fps", cfg.RenderFPS, "Render ticks per second for the web and headless hosts")
	blend := flag.Float64("blend", cfg.Tracking.Blend, "Fraction of the remaining rotation covered per tick")
	interp := flag.String("interpolation", string(cfg.Tracking.Interpolation), "Smoothing: slerp or euler")
	interval := flag.Duration("interval", cfg.Tracking.DetectionInterval, "Pause between detections")
	logLevel := flag.String("log-level", config.String(config.EnvLogLevel, "info"), "Log level: debug, info, warn, error")
	logFile := flag.String("log-file", config.String(config.EnvLogFile, ""), "Also write logs to this rotating file")

	flag.Parse()

	cfg.Debug, cfg.DebugTracking = *debug, *debugTracking
	cfg.Host, cfg.Backend = gaze.Host(*host), gaze.Backend(*backend)
	cfg.Camera.DeviceIndex, cfg.Camera.Width, cfg.Camera.Height = *cameraIndex, *width, *height
	cfg.Detection.ModelPath, cfg.YuNet.ModelPath = *model, *yunetModel
	cfg.Web.Addr, cfg.DriverURL = *addr, *driverURL
	cfg.RenderFPS = *fps
	cfg.Desktop.FPS = *fps
	cfg.Tracking.Blend = *blend
	cfg.Tracking.Interpolation = tracking.Interpolation(*interp)
	cfg.Tracking.DetectionInterval = *interval

	level := *logLevel
	if *debug || *debugTracking {
		level = "debug"
	}
	return cfg, level, *logFile
}

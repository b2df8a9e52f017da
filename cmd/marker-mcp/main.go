package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ironsheep/marker-tools-mcp/internal/capture"
	"github.com/ironsheep/marker-tools-mcp/internal/config"
	"github.com/ironsheep/marker-tools-mcp/internal/detection"
	"github.com/ironsheep/marker-tools-mcp/internal/imaging"
	"github.com/ironsheep/marker-tools-mcp/internal/logging"
	"github.com/ironsheep/marker-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const usage = `marker-tools-mcp - square fiducial marker detection

Usage:
  marker-tools-mcp              Serve MCP over stdin/stdout
  marker-tools-mcp scan IMAGE...
                                Print the markers found in each image as JSON
  marker-tools-mcp watch [DEVICE]
                                Log the marker ids seen in every frame of a
                                camera index, video file or image directory

Options:
  --version, -v    Print version information
  --help, -h       Print this help message

Environment variables (also read from ./.env):
  MARKER_LOG_LEVEL=info                       trace, debug, info, warn, error
  MARKER_CALIBRATION=cameraCalibration.yaml   Camera calibration (YAML, XML or JSON)
  MARKER_DEVICE=0                             Default device for watch
  MARKER_CONTOUR_DIVISOR=0                    Skip contours under width / divisor, 0 keeps all
  MARKER_SUBPIXEL=true                        Refine corners to subpixel accuracy
  MARKER_POSE=true                            Estimate pose and cube

The MCP server communicates via stdin/stdout; logs go to stderr.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Fprintf(stdout, "marker-tools-mcp %s\n", Version)
			fmt.Fprintf(stdout, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			fmt.Fprint(stdout, usage)
			return 0
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "marker-tools-mcp: %v\n", err)
		return 1
	}
	// stdout carries the MCP protocol and scan output, so logs go to stderr
	logger := logging.New(stderr, cfg.LogLevel)

	if len(args) == 0 {
		err = serve(cfg, logger, stdin, stdout)
	} else {
		switch args[0] {
		case "scan":
			err = scan(cfg, logger, args[1:], stdout)
		case "watch":
			err = watch(ctx, cfg, logger, args[1:])
		default:
			fmt.Fprintf(stderr, "marker-tools-mcp: unknown command %q\n\n%s", args[0], usage)
			return 2
		}
	}
	if err != nil {
		logger.Error().Err(err).Msg("exiting")
		return 1
	}
	return 0
}

// newDetector builds the detector the configuration describes.
func newDetector(cfg *config.Config, logger zerolog.Logger) (*detection.Detector, error) {
	opts := []detection.Option{
		detection.WithLogger(logger),
		detection.WithMinContourDivisor(cfg.ContourDivisor),
	}
	if !cfg.Subpixel {
		opts = append(opts, detection.WithoutSubpixel())
	}
	if !cfg.Pose {
		opts = append(opts, detection.WithoutPose())
	}
	return detection.NewFromFile(cfg.Calibration, opts...)
}

// serve runs the MCP server. Without a calibration file the image tools
// still work and the marker tools report the missing calibration.
func serve(cfg *config.Config, logger zerolog.Logger, in io.Reader, out io.Writer) error {
	logger.Debug().Str("version", Version).Str("built", BuildTime).Str("commit", GitCommit).Msg("starting MCP server")
	server.Version = Version

	var det *detection.Detector
	if cfg.CalibrationExists() {
		var err error
		if det, err = newDetector(cfg, logger); err != nil {
			return err
		}
	} else {
		logger.Warn().Str("calibration", cfg.Calibration).Msg("calibration file not found, marker tools disabled")
	}

	srv := server.New(det, server.WithLogger(logger), server.WithCalibrationPath(cfg.Calibration))
	return srv.Serve(in, out)
}

// scanResult is what scan prints for one image.
type scanResult struct {
	Path  string           `json:"path"`
	Frame *detection.Frame `json:"frame,omitempty"`
	Error string           `json:"error,omitempty"`
}

// scan detects markers in every image and writes one JSON document per
// image. An unreadable image is reported in its document; scan fails only
// when no image could be read.
func scan(cfg *config.Config, logger zerolog.Logger, paths []string, out io.Writer) error {
	if len(paths) == 0 {
		return errors.New("scan: no image given")
	}
	det, err := newDetector(cfg, logger)
	if err != nil {
		return err
	}

	cache := imaging.NewImageCache()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	read := 0
	for _, path := range paths {
		res := scanResult{Path: path}
		gray, err := cache.Intensity(path)
		if err != nil {
			res.Error = err.Error()
		} else {
			read++
			res.Frame, err = det.Detect(gray)
			if err != nil {
				res.Error = err.Error()
			}
		}
		cache.Evict(path)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
	}
	if read == 0 {
		return errors.New("scan: no image could be read")
	}
	return nil
}

// watch logs the ids found in every frame of the device until the source
// ends or ctx is cancelled. Frames without markers are only logged at debug.
func watch(ctx context.Context, cfg *config.Config, logger zerolog.Logger, args []string) error {
	device := cfg.Device
	if len(args) > 0 {
		device = args[0]
	}
	det, err := newDetector(cfg, logger)
	if err != nil {
		return err
	}

	src, err := capture.Open(device)
	if err != nil {
		return err
	}
	defer src.Close()

	logger.Info().Str("device", device).Msg("watching")
	quiet := logging.Sampled(logger)
	err = capture.Each(ctx, src, func(n int, gray *image.Gray) error {
		frame, err := det.Detect(gray)
		if err != nil {
			logger.Warn().Int("frame", n).Err(err).Msg("pose failed")
		}
		if len(frame.Markers) == 0 {
			quiet.Debug().Int("frame", n).Msg("no markers")
			return nil
		}
		logger.Info().Int("frame", n).Str("ids", frame.IDs()).Msg("markers found")
		return nil
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

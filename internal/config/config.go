// Package config reads process settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvPrefix is prepended to every environment variable, so the log level is
// read from MARKER_LOG_LEVEL.
const EnvPrefix = "MARKER"

const (
	keyLogLevel       = "log_level"
	keyCalibration    = "calibration"
	keyDevice         = "device"
	keyContourDivisor = "contour_divisor"
	keySubpixel       = "subpixel"
	keyPose           = "pose"
)

// Config holds the settings shared by the server and the CLI commands.
type Config struct {
	LogLevel string
	// Calibration is the path of the camera calibration file.
	Calibration string
	// Device is the default capture device for watch.
	Device string
	// ContourDivisor skips contours shorter than width/divisor. Zero, the
	// default, keeps every contour.
	ContourDivisor int
	Subpixel       bool
	Pose           bool
}

// Load reads the given .env files, or ./.env when none are named, and then
// the MARKER_* environment. A missing .env is not an error; variables
// already set in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		// Ignore the error when there is no .env
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyCalibration, "cameraCalibration.yaml")
	v.SetDefault(keyDevice, "0")
	v.SetDefault(keyContourDivisor, 0)
	v.SetDefault(keySubpixel, true)
	v.SetDefault(keyPose, true)

	cfg := &Config{
		LogLevel:       v.GetString(keyLogLevel),
		Calibration:    v.GetString(keyCalibration),
		Device:         v.GetString(keyDevice),
		ContourDivisor: v.GetInt(keyContourDivisor),
		Subpixel:       v.GetBool(keySubpixel),
		Pose:           v.GetBool(keyPose),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Calibration == "" {
		err = multierr.Append(err, errors.New("config: MARKER_CALIBRATION is empty"))
	}
	if c.ContourDivisor < 0 {
		err = multierr.Append(err, fmt.Errorf("config: MARKER_CONTOUR_DIVISOR must not be negative, got %d", c.ContourDivisor))
	}
	return err
}

// CalibrationExists reports whether the calibration file is present.
func (c *Config) CalibrationExists() bool {
	_, err := os.Stat(c.Calibration)
	return err == nil
}

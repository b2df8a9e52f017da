package camera

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Keys of the two entries a calibration file must carry.
const (
	KeyCameraMatrix = "CameraMatrix"
	KeyDistortion   = "DistortionCoefficients"
)

// ErrNoCalibration is wrapped by ConfigurationError when a detector is built
// without a camera model.
var ErrNoCalibration = errors.New("no camera calibration")

// ConfigurationError reports a missing or malformed camera calibration.
// It is fatal at construction time.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("camera configuration: %v", e.Err)
	}
	return fmt.Sprintf("camera configuration %q: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// matrixEntry mirrors a matrix node as OpenCV's FileStorage writes it.
type matrixEntry struct {
	Rows int       `mapstructure:"rows"`
	Cols int       `mapstructure:"cols"`
	Data []float64 `mapstructure:"data"`
}

var (
	yamlDirective = regexp.MustCompile(`(?m)^%YAML.*$`)
	opencvTag     = regexp.MustCompile(`!!opencv-matrix`)
)

// Load reads a calibration file in OpenCV FileStorage YAML or XML form, or
// as plain JSON. The format follows the file extension.
//
// Any failure, including a missing file, is returned as a
// *ConfigurationError.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}

	v := viper.New()
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch format {
	case "yaml", "yml":
		raw = yamlDirective.ReplaceAll(raw, nil)
		raw = opencvTag.ReplaceAll(raw, nil)
		v.SetConfigType("yaml")
		err = v.ReadConfig(bytes.NewReader(raw))
	case "json":
		v.SetConfigType("json")
		err = v.ReadConfig(bytes.NewReader(raw))
	case "xml":
		var nodes map[string]interface{}
		nodes, err = readStorageXML(raw)
		if err == nil {
			err = v.MergeConfigMap(nodes)
		}
	default:
		return nil, &ConfigurationError{Path: path, Err: fmt.Errorf("unsupported calibration format %q", filepath.Ext(path))}
	}
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: fmt.Errorf("parse: %w", err)}
	}

	model, err := decode(v)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	return model, nil
}

func decode(v *viper.Viper) (*Model, error) {
	var errs error

	matrix, err := readMatrix(v, KeyCameraMatrix)
	errs = multierr.Append(errs, err)
	if err == nil && (matrix.Rows != 3 || matrix.Cols != 3) {
		errs = multierr.Append(errs, fmt.Errorf("%s must be 3x3, got %dx%d", KeyCameraMatrix, matrix.Rows, matrix.Cols))
	}

	dist, err := readMatrix(v, KeyDistortion)
	errs = multierr.Append(errs, err)

	if errs != nil {
		return nil, errs
	}

	m := &Model{Distortion: dist.Data}
	copy(m.Matrix[:], matrix.Data)
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func readMatrix(v *viper.Viper, key string) (matrixEntry, error) {
	var e matrixEntry
	if !v.IsSet(key) {
		return e, fmt.Errorf("missing %s", key)
	}
	if err := v.UnmarshalKey(key, &e); err != nil {
		return e, fmt.Errorf("%s: %w", key, err)
	}
	if len(e.Data) == 0 {
		return e, fmt.Errorf("%s has no data", key)
	}
	if e.Rows*e.Cols != len(e.Data) {
		return e, fmt.Errorf("%s declares %dx%d but holds %d values", key, e.Rows, e.Cols, len(e.Data))
	}
	return e, nil
}

// storageXML is the <opencv_storage> root of a FileStorage XML file.
type storageXML struct {
	Nodes []storageNode `xml:",any"`
}

type storageNode struct {
	XMLName xml.Name
	Rows    int    `xml:"rows"`
	Cols    int    `xml:"cols"`
	Data    string `xml:"data"`
}

// readStorageXML turns every top-level node of a FileStorage XML file into
// the rows/cols/data map the YAML form decodes to.
func readStorageXML(raw []byte) (map[string]interface{}, error) {
	var doc storageXML
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	nodes := make(map[string]interface{}, len(doc.Nodes))
	for _, n := range doc.Nodes {
		fields := strings.Fields(n.Data)
		data := make([]float64, 0, len(fields))
		for _, f := range fields {
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", n.XMLName.Local, err)
			}
			data = append(data, x)
		}
		nodes[n.XMLName.Local] = map[string]interface{}{
			"rows": n.Rows,
			"cols": n.Cols,
			"data": data,
		}
	}
	return nodes, nil
}

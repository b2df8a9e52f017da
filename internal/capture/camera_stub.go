//go:build !gocv
// +build !gocv

package capture

func openCamera(string) (Source, error) {
	return nil, ErrNoOpenCV
}

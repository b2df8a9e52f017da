//go:build !gocv
// +build !gocv

package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenCameraWithoutOpenCV(t *testing.T) {
	src, err := Open("0")
	assert.Nil(t, src)
	assert.ErrorIs(t, err, ErrNoOpenCV)
}

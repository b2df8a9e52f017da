package detection

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinarizeBimodal(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 40))
	fill(img, img.Bounds(), 50)
	fill(img, image.Rect(10, 10, 30, 30), 200)

	bin, threshold := Binarize(img)
	assert.Equal(t, uint8(50), threshold)
	assert.Equal(t, uint8(0), bin.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), bin.GrayAt(15, 15).Y)
	assert.Equal(t, uint8(0), bin.GrayAt(39, 39).Y)
}

func TestBinarizeBlackAndWhite(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 10))
	fill(img, image.Rect(0, 0, 5, 10), 255)

	bin, threshold := Binarize(img)
	assert.Equal(t, uint8(0), threshold)
	assert.Equal(t, uint8(255), bin.GrayAt(4, 4).Y)
	assert.Equal(t, uint8(0), bin.GrayAt(5, 4).Y)
}

func TestBinarizeUniformUsesSeed(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	fill(img, img.Bounds(), 200)

	_, ok := OtsuThreshold(img)
	assert.False(t, ok)

	bin, threshold := Binarize(img)
	assert.Equal(t, uint8(SeedThreshold), threshold)
	for _, v := range bin.Pix {
		require.Equal(t, uint8(255), v)
	}

	fill(img, img.Bounds(), 100)
	bin, _ = Binarize(img)
	for _, v := range bin.Pix {
		require.Equal(t, uint8(0), v)
	}
}

func TestBinarizeEmpty(t *testing.T) {
	bin, threshold := Binarize(image.NewGray(image.Rectangle{}))
	assert.True(t, bin.Bounds().Empty())
	assert.Equal(t, uint8(SeedThreshold), threshold)
}

func TestBinarizeSubImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	fill(img, image.Rect(10, 10, 15, 20), 255)
	sub := img.SubImage(image.Rect(10, 10, 20, 20)).(*image.Gray)

	bin, _ := Binarize(sub)
	assert.Equal(t, image.Rect(0, 0, 10, 10), bin.Bounds())
	assert.Equal(t, uint8(255), bin.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(0), bin.GrayAt(5, 0).Y)
}

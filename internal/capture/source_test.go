package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGray(t *testing.T, path string, v uint8) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 6))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func sequenceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeGray(t, filepath.Join(dir, "b.png"), 20)
	writeGray(t, filepath.Join(dir, "a.png"), 10)
	writeGray(t, filepath.Join(dir, "c.PNG"), 30)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))
	return dir
}

func TestSequenceReadsInNameOrder(t *testing.T) {
	seq, err := OpenSequence(sequenceDir(t))
	require.NoError(t, err)
	defer seq.Close()
	require.Equal(t, 3, seq.Len())

	ctx := context.Background()
	for _, want := range []uint8{10, 20, 30} {
		frame, err := seq.Read(ctx)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 8, 6), frame.Bounds())
		assert.Equal(t, color.Gray{Y: want}, frame.GrayAt(3, 3))
	}

	_, err = seq.Read(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestSequenceErrors(t *testing.T) {
	_, err := OpenSequence(t.TempDir())
	assert.ErrorContains(t, err, "no images")

	_, err = OpenSequence(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o600))
	seq, err := OpenSequence(dir)
	require.NoError(t, err)
	_, err = seq.Read(context.Background())
	assert.ErrorContains(t, err, "broken.png")
}

func TestSequenceCloseAndCancel(t *testing.T) {
	seq, err := OpenSequence(sequenceDir(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = seq.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	require.NoError(t, seq.Close())
	_, err = seq.Read(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEach(t *testing.T) {
	seq, err := OpenSequence(sequenceDir(t))
	require.NoError(t, err)

	var seen []uint8
	err = Each(context.Background(), seq, func(n int, frame *image.Gray) error {
		assert.Equal(t, len(seen), n)
		seen = append(seen, frame.GrayAt(0, 0).Y)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []uint8{10, 20, 30}, seen)
}

func TestEachStopsOnCallbackError(t *testing.T) {
	seq, err := OpenSequence(sequenceDir(t))
	require.NoError(t, err)

	stop := errors.New("stop")
	calls := 0
	err = Each(context.Background(), seq, func(int, *image.Gray) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestOpenDirectory(t *testing.T) {
	src, err := Open(sequenceDir(t))
	require.NoError(t, err)
	defer src.Close()
	assert.IsType(t, &Sequence{}, src)
}

package inventory

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestPrepareImageDownscalesLongEdge(t *testing.T) {
	opts := ImageOptions{}.withDefaults()
	name, data := prepareImage(FileImage{Name: "photo.png", Data: pngBytes(t, 3200, 2000)}, opts)

	require.Equal(t, "photo.jpg", name)
	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 1600, decoded.Bounds().Dx())
	require.Equal(t, 1000, decoded.Bounds().Dy())
}

func TestPrepareImagePortraitUsesLongestEdge(t *testing.T) {
	opts := ImageOptions{MaxEdge: 800, JPEGQuality: 80}
	_, data := prepareImage(FileImage{Name: "tall.png", Data: pngBytes(t, 400, 1600)}, opts)

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 200, decoded.Bounds().Dx())
	require.Equal(t, 800, decoded.Bounds().Dy())
}

func TestPrepareImageSmallImageReencodedWithoutResize(t *testing.T) {
	opts := ImageOptions{}.withDefaults()
	name, data := prepareImage(FileImage{Name: "small.png", Data: pngBytes(t, 640, 480)}, opts)

	require.Equal(t, "small.jpg", name)
	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 640, decoded.Bounds().Dx())
	require.Equal(t, 480, decoded.Bounds().Dy())
}

func TestPrepareImagePassesThroughUndecodablePayloads(t *testing.T) {
	opts := ImageOptions{}.withDefaults()
	raw := []byte("definitely not an image")
	name, data := prepareImage(FileImage{Name: "blob.bin", Data: raw}, opts)

	require.Equal(t, "blob.bin", name)
	require.Equal(t, raw, data)
}

// gatedUploader records the peak number of uploads in flight.
type gatedUploader struct {
	mu       sync.Mutex
	inFlight int
	peak     int
}

func (g *gatedUploader) Upload(ctx context.Context, name string, data []byte, prefix string) (string, error) {
	g.mu.Lock()
	g.inFlight++
	if g.inFlight > g.peak {
		g.peak = g.inFlight
	}
	g.mu.Unlock()

	time.Sleep(20 * time.Millisecond)

	g.mu.Lock()
	g.inFlight--
	g.mu.Unlock()
	return "https://cdn.test/" + prefix + "/" + name, nil
}

func TestResolveImagesBoundsUploadConcurrency(t *testing.T) {
	uploads := &gatedUploader{}
	store := NewStore(nil, uploads, StoreOptions{Images: ImageOptions{Concurrency: 3}}, testLogger())

	sources := make([]ImageSource, 5)
	for i := range sources {
		sources[i] = FileImage{Name: fmt.Sprintf("img-%d.bin", i), Data: []byte("x")}
	}

	results, err := store.resolveImages(context.Background(), sources, "products")
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, img := range results {
		require.NotEmpty(t, img.URL)
	}
	require.Positive(t, uploads.peak)
	require.LessOrEqual(t, uploads.peak, 3)
}

type bogusSource struct{}

func (bogusSource) imageSource() {}

func TestResolveImagesRejectsUnknownSourceBeforeUploading(t *testing.T) {
	uploads := &fakeUploader{}
	store := NewStore(nil, uploads, StoreOptions{}, testLogger())

	_, err := store.resolveImages(context.Background(), []ImageSource{
		FileImage{Name: "a.bin", Data: []byte("x")},
		bogusSource{},
	}, "products")
	require.ErrorIs(t, err, ErrUnknownImageSource)
	require.Equal(t, 0, uploads.count())
}

func TestJpegName(t *testing.T) {
	require.Equal(t, "a.jpg", jpegName("a.png"))
	require.Equal(t, "a.b.jpg", jpegName("a.b.webp"))
	require.Equal(t, "noext.jpg", jpegName("noext"))
}

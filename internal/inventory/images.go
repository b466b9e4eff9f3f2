package inventory

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoding for vendor uploads
	"path"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// ImageSource is one entry of the heterogeneous images field accepted by
// AddProduct and UpdateProduct: either an already-hosted descriptor or a raw
// file awaiting upload.
type ImageSource interface {
	imageSource()
}

// HostedImage is an already-uploaded descriptor; it passes through untouched
// and is never re-uploaded.
type HostedImage Image

func (HostedImage) imageSource() {}

// FileImage pairs a raw binary payload with its display name.
type FileImage struct {
	Name string
	Data []byte
}

func (FileImage) imageSource() {}

// ImageOptions bounds the client-side image pipeline.
type ImageOptions struct {
	MaxEdge     int
	JPEGQuality int
	Concurrency int
}

// withDefaults fills unset options.
func (o ImageOptions) withDefaults() ImageOptions {
	if o.MaxEdge <= 0 {
		o.MaxEdge = 1600
	}
	if o.JPEGQuality <= 0 {
		o.JPEGQuality = 80
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 3
	}
	return o
}

// resolveImages turns the mixed source list into hosted descriptors, keeping
// input order. Raw files are re-encoded and uploaded with at most
// opts.Concurrency uploads in flight; hosted descriptors pass through.
func (s *Store) resolveImages(ctx context.Context, sources []ImageSource, prefix string) ([]Image, error) {
	if len(sources) == 0 {
		return []Image{}, nil
	}
	// Reject unknown source types up front so no upload goroutine is ever
	// launched for a list that cannot fully resolve.
	for _, src := range sources {
		switch src.(type) {
		case HostedImage, FileImage:
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnknownImageSource, src)
		}
	}

	opts := s.images.withDefaults()
	results := make([]Image, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, src := range sources {
		switch img := src.(type) {
		case HostedImage:
			results[i] = Image(img)
		case FileImage:
			g.Go(func() error {
				name, data := prepareImage(img, opts)
				url, err := s.uploads.Upload(ctx, name, data, prefix)
				if err != nil {
					return fmt.Errorf("inventory: upload image %q: %w", img.Name, err)
				}
				results[i] = Image{URL: url, Name: name, Size: int64(len(data))}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// prepareImage downscales the payload to the longest-edge cap and re-encodes
// it as a fixed-quality JPEG. Payloads that do not decode as images are
// uploaded unchanged.
func prepareImage(file FileImage, opts ImageOptions) (string, []byte) {
	src, _, err := image.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return file.Name, file.Data
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > opts.MaxEdge || h > opts.MaxEdge {
		scale := float64(opts.MaxEdge) / float64(w)
		if h > w {
			scale = float64(opts.MaxEdge) / float64(h)
		}
		dw := int(float64(w) * scale)
		dh := int(float64(h) * scale)
		if dw < 1 {
			dw = 1
		}
		if dh < 1 {
			dh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: opts.JPEGQuality}); err != nil {
		return file.Name, file.Data
	}
	return jpegName(file.Name), buf.Bytes()
}

func jpegName(name string) string {
	ext := path.Ext(name)
	if ext == "" {
		return name + ".jpg"
	}
	return strings.TrimSuffix(name, ext) + ".jpg"
}

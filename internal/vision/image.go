package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strconv"
	"strings"

	// Registered decoders for inline image payloads.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/cespare/xxhash/v2"

	"github.com/looplj/visionhub/internal/engine"
	"github.com/looplj/visionhub/internal/log"
	"github.com/looplj/visionhub/internal/pkg/xcache"
)

const dataURIPrefix = "data:image"

// DecodeError marks an inline image payload that could not be decoded. It
// always maps to a client error, never a server one.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid base64 image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ImageResolver turns image references from requests into engine inputs.
// Data URIs are decoded locally; anything else is passed through untouched
// for the engine to fetch. Decoded images are cached by the hash of the full
// data URI so retried requests skip the base64 and pixel decode work.
type ImageResolver struct {
	cache xcache.Cache[engine.Image]
}

func NewImageResolver(config xcache.Config) *ImageResolver {
	return &ImageResolver{cache: xcache.NewFromConfig[engine.Image](config)}
}

func (r *ImageResolver) Resolve(ctx context.Context, ref string) (engine.Image, error) {
	if !strings.HasPrefix(ref, dataURIPrefix) {
		return engine.Image{URL: ref}, nil
	}

	key := cacheKey(ref)
	if img, err := r.cache.Get(ctx, key); err == nil {
		return img, nil
	}

	img, err := decodeDataURI(ref)
	if err != nil {
		return engine.Image{}, err
	}

	if err := r.cache.Set(ctx, key, img); err != nil {
		log.Warn(ctx, "failed to cache decoded image", log.Cause(err))
	}

	return img, nil
}

func cacheKey(ref string) string {
	return strconv.FormatUint(xxhash.Sum64String(ref), 16)
}

// decodeDataURI strips the data URI header at the first comma, base64-decodes
// the payload and decodes the pixels.
func decodeDataURI(ref string) (engine.Image, error) {
	_, payload, found := strings.Cut(ref, ",")
	if !found {
		return engine.Image{}, &DecodeError{Err: errors.New("data uri has no comma separator")}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return engine.Image{}, &DecodeError{Err: err}
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return engine.Image{}, &DecodeError{Err: err}
	}

	return engine.Image{Decoded: normalizeRGB(decoded)}, nil
}

// normalizeRGB redraws the image into an 8-bit RGBA buffer and discards the
// alpha channel, matching what the model preprocessing expects. The stdlib
// has no alpha-free RGB type, so opaque RGBA stands in for it.
func normalizeRGB(src image.Image) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)

	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xFF
	}

	return dst
}

package cache

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

var (
	errNotDataURL    = errors.New("not a base64 data URL")
	errNotImage      = errors.New("payload is not a supported image")
	imageMIMEAllowed = []string{"image/png", "image/jpeg", "image/gif"}
)

// DataURL is a decoded data: URL
type DataURL struct {
	MIME string
	Data []byte
}

// ParseDataURL decodes "data:<mime>;base64,<payload>"
func ParseDataURL(s string) (DataURL, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return DataURL{}, errNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return DataURL{}, errNotDataURL
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return DataURL{}, fmt.Errorf("decode payload: %w", err)
	}

	// trust the bytes, not the declared type
	detected := mimetype.Detect(data)
	return DataURL{MIME: detected.String(), Data: data}, nil
}

// String encodes the data URL
func (d DataURL) String() string {
	return "data:" + d.MIME + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}

// CompressDataURL re-encodes an image data URL as JPEG at quality when it is
// longer than threshold bytes. Payloads at or under threshold, or re-encodes
// that would not shrink, are returned unchanged.
func CompressDataURL(s string, threshold, quality int) (string, error) {
	if len(s) <= threshold {
		return s, nil
	}

	src, err := ParseDataURL(s)
	if err != nil {
		return s, err
	}
	if !mimetype.EqualsAny(src.MIME, imageMIMEAllowed...) {
		return s, fmt.Errorf("%w: %s", errNotImage, src.MIME)
	}

	img, _, err := image.Decode(bytes.NewReader(src.Data))
	if err != nil {
		return s, fmt.Errorf("decode image: %w", err)
	}

	// JPEG has no alpha; flatten onto white like a blank canvas
	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: quality}); err != nil {
		return s, fmt.Errorf("encode jpeg: %w", err)
	}

	out := DataURL{MIME: "image/jpeg", Data: buf.Bytes()}.String()
	if len(out) >= len(s) {
		return s, nil
	}
	return out, nil
}

// SetSnapshot stores an image data URL, compressing it first when it exceeds
// the snapshot threshold. Compression failures fall back to the original.
func (c *Cache) SetSnapshot(key, dataURL string) WriteResult {
	compressed, err := CompressDataURL(dataURL, c.opts.SnapshotThreshold, c.opts.SnapshotQuality)
	if err != nil {
		c.logger.Error("Failed to compress snapshot", zap.String("key", key), zap.Error(err))
	} else if len(compressed) != len(dataURL) {
		c.logger.Debug("Snapshot compressed",
			zap.String("key", key),
			zap.Float64("before_kb", float64(len(dataURL))/1024),
			zap.Float64("after_kb", float64(len(compressed))/1024))
	}

	res := c.Set(key, compressed)
	if res.Oversized {
		c.logger.Warn("Snapshot is large, consider clearing the cache",
			zap.String("key", key),
			zap.Float64("size_mb", float64(res.Size)/1024/1024))
	}
	return res
}

package raster

import (
	"encoding/binary"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format names an export encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	// FormatRaw is a zstd-compressed dump: width and height as little-endian
	// uint32, followed by the RGBA8 snapshot bytes.
	FormatRaw Format = "rgba.zst"
)

// Formats lists the supported export formats.
func Formats() []Format {
	return []Format{FormatPNG, FormatBMP, FormatTIFF, FormatRaw}
}

// FormatFromPath picks an export format from a file name.
func FormatFromPath(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".rgba.zst"):
		return FormatRaw, nil
	case strings.HasSuffix(name, ".png"):
		return FormatPNG, nil
	case strings.HasSuffix(name, ".bmp"):
		return FormatBMP, nil
	case strings.HasSuffix(name, ".tif"), strings.HasSuffix(name, ".tiff"):
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("raster: unknown export format for %q, expected one of %v", path, Formats())
}

// Encode writes a snapshot of r to w in the given format.
func (r *Raster) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, r.Image())
	case FormatBMP:
		return bmp.Encode(w, r.Image())
	case FormatTIFF:
		return tiff.Encode(w, r.Image(), &tiff.Options{Compression: tiff.Deflate})
	case FormatRaw:
		return r.encodeRaw(w)
	}
	return fmt.Errorf("raster: unsupported format %q", f)
}

func (r *Raster) encodeRaw(w io.Writer) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("raster: cannot create zstd writer: %w", err)
	}
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(r.width))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(r.height))
	if _, err := enc.Write(hdr[:]); err != nil {
		enc.Close()
		return fmt.Errorf("raster: cannot write header: %w", err)
	}
	if _, err := enc.Write(r.Snapshot(nil)); err != nil {
		enc.Close()
		return fmt.Errorf("raster: cannot write pixels: %w", err)
	}
	return enc.Close()
}

// DecodeRaw reads a FormatRaw stream and returns its dimensions and pixels.
func DecodeRaw(rd io.Reader) (width, height int, pix []byte, err error) {
	dec, err := zstd.NewReader(rd)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("raster: cannot create zstd reader: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("raster: cannot decompress: %w", err)
	}
	if len(data) < 8 {
		return 0, 0, nil, fmt.Errorf("raster: raw dump truncated")
	}
	width = int(binary.LittleEndian.Uint32(data[0:]))
	height = int(binary.LittleEndian.Uint32(data[4:]))
	pix = data[8:]
	if len(pix) != width*height*BytesPerPixel {
		return 0, 0, nil, fmt.Errorf("raster: raw dump holds %d bytes, expected %d", len(pix), width*height*BytesPerPixel)
	}
	return width, height, pix, nil
}

// Save writes a snapshot to path, choosing the format by extension and
// creating parent directories as needed.
func (r *Raster) Save(path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("raster: cannot create directory: %w", err)
	}
	out, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("raster: cannot create %s: %w", path, err)
	}
	if err := r.Encode(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

package raster

import (
	"bytes"
	"errors"
	"image/png"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vovakirdan/allcolors/internal/core"
)

func TestNewRaster(t *testing.T) {
	r, err := New(4, 2)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if r.Width() != 4 || r.Height() != 2 {
		t.Errorf("size = %dx%d, expected 4x2", r.Width(), r.Height())
	}
	if r.Stride() != 16 || r.Len() != 32 {
		t.Errorf("Stride() = %d, Len() = %d", r.Stride(), r.Len())
	}

	snap := r.Snapshot(nil)
	for i, b := range snap {
		if b != 0 {
			t.Fatalf("byte %d = %d, new raster should be all sentinel", i, b)
		}
	}
	if r.Filled() != 0 {
		t.Errorf("Filled() = %d, expected 0", r.Filled())
	}
}

func TestNewRasterRejectsEmpty(t *testing.T) {
	if _, err := New(0, 5); !errors.Is(err, core.ErrConfig) {
		t.Errorf("New(0, 5) error = %v, expected ErrConfig", err)
	}
	if _, err := New(1<<16, 1<<16); !errors.Is(err, core.ErrConfig) {
		t.Errorf("New(65536, 65536) error = %v, expected ErrConfig", err)
	}
	if _, err := New(8, 1<<61+1); !errors.Is(err, core.ErrConfig) {
		t.Errorf("wrapping area error = %v, expected ErrConfig", err)
	}
}

func TestSetAndPixel(t *testing.T) {
	r, _ := New(3, 3)
	px := [4]byte{10, 20, 30, 255}

	if !r.Set(1, 2, px) {
		t.Error("first Set should report a fresh pixel")
	}
	if got := r.Pixel(1, 2); got != px {
		t.Errorf("Pixel(1, 2) = %v, expected %v", got, px)
	}
	if !r.Assigned(1, 2) || r.Assigned(0, 0) {
		t.Error("Assigned() mismatch")
	}
	if r.Set(1, 2, [4]byte{1, 1, 1, 255}) {
		t.Error("second Set on the same pixel should report false")
	}
	if got := r.Pixel(1, 2); got != px {
		t.Errorf("second Set overwrote the pixel: %v", got)
	}
	if r.Filled() != 1 {
		t.Errorf("Filled() = %d, expected 1", r.Filled())
	}

	// Out of bounds is ignored
	if r.Set(-1, 0, px) || r.Set(3, 0, px) {
		t.Error("out of bounds Set should report false")
	}
	if r.Pixel(9, 9) != Sentinel {
		t.Error("out of bounds Pixel should be the sentinel")
	}
}

func TestSnapshotLayout(t *testing.T) {
	r, _ := New(2, 2)
	r.Set(1, 0, [4]byte{1, 2, 3, 255})
	r.Set(0, 1, [4]byte{4, 5, 6, 255})

	snap := r.Snapshot(make([]byte, 0, 1))
	want := []byte{
		0, 0, 0, 0, 1, 2, 3, 255,
		4, 5, 6, 255, 0, 0, 0, 0,
	}
	if !bytes.Equal(snap, want) {
		t.Errorf("Snapshot() = %v, expected %v", snap, want)
	}

	// Reuses a large enough buffer
	buf := make([]byte, 64)
	out := r.Snapshot(buf)
	if len(out) != r.Len() || &out[0] != &buf[0] {
		t.Error("Snapshot should reuse dst when it has capacity")
	}
}

func TestDigestTracksContent(t *testing.T) {
	a, _ := New(2, 2)
	b, _ := New(2, 2)
	if a.Digest() != b.Digest() {
		t.Error("empty rasters should share a digest")
	}
	a.Set(0, 0, [4]byte{9, 9, 9, 255})
	if a.Digest() == b.Digest() {
		t.Error("digest should change after a write")
	}
	b.Set(0, 0, [4]byte{9, 9, 9, 255})
	if a.Digest() != b.Digest() {
		t.Error("equal content should give equal digests")
	}
}

func TestConcurrentReaders(t *testing.T) {
	r, _ := New(64, 64)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf []byte
			last := 0
			for {
				select {
				case <-stop:
					return
				default:
				}
				buf = r.Snapshot(buf)
				for p := 0; p < len(buf); p += BytesPerPixel {
					if a := buf[p+3]; a != 0 && a != 255 {
						t.Errorf("torn pixel alpha %d", a)
						return
					}
				}
				f := r.Filled()
				if f < last {
					t.Errorf("Filled() went from %d to %d", last, f)
					return
				}
				last = f
			}
		}()
	}

	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			r.Set(x, y, [4]byte{uint8(x), uint8(y), 7, 255})
		}
	}
	close(stop)
	wg.Wait()

	if r.Filled() != 64*64 {
		t.Errorf("Filled() = %d, expected %d", r.Filled(), 64*64)
	}
}

func TestEncodePNG(t *testing.T) {
	r, _ := New(2, 1)
	r.Set(0, 0, [4]byte{255, 0, 0, 255})

	var buf bytes.Buffer
	if err := r.Encode(&buf, FormatPNG); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	cr, cg, cb, ca := img.At(0, 0).RGBA()
	if cr != 0xFFFF || cg != 0 || cb != 0 || ca != 0xFFFF {
		t.Errorf("pixel (0,0) = %x %x %x %x", cr, cg, cb, ca)
	}
	if _, _, _, a := img.At(1, 0).RGBA(); a != 0 {
		t.Error("sentinel pixel should be transparent")
	}
}

func TestRawRoundTrip(t *testing.T) {
	r, _ := New(3, 2)
	r.Set(2, 1, [4]byte{7, 8, 9, 255})

	var buf bytes.Buffer
	if err := r.Encode(&buf, FormatRaw); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	w, h, pix, err := DecodeRaw(&buf)
	if err != nil {
		t.Fatalf("DecodeRaw() failed: %v", err)
	}
	if w != 3 || h != 2 {
		t.Errorf("size = %dx%d, expected 3x2", w, h)
	}
	if !bytes.Equal(pix, r.Snapshot(nil)) {
		t.Error("raw dump pixels differ from snapshot")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"out.png", FormatPNG, true},
		{"OUT.PNG", FormatPNG, true},
		{"a/b.bmp", FormatBMP, true},
		{"x.tif", FormatTIFF, true},
		{"x.tiff", FormatTIFF, true},
		{"dump.rgba.zst", FormatRaw, true},
		{"x.jpg", "", false},
	}

	for _, tc := range tests {
		got, err := FormatFromPath(tc.path)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("FormatFromPath(%q) = %q, %v", tc.path, got, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("FormatFromPath(%q) should fail", tc.path)
		}
	}

	for _, f := range Formats() {
		if got, err := FormatFromPath("canvas." + string(f)); err != nil || got != f {
			t.Errorf("listed format %q does not resolve from its extension: %q, %v", f, got, err)
		}
	}
}

func TestSaveAllFormats(t *testing.T) {
	r, _ := New(4, 4)
	r.Set(0, 0, [4]byte{1, 2, 3, 255})
	dir := t.TempDir()

	for _, name := range []string{"a.png", "b.bmp", "c.tiff", "d.rgba.zst"} {
		if err := r.Save(filepath.Join(dir, "nested", name)); err != nil {
			t.Errorf("Save(%s) failed: %v", name, err)
		}
	}
}

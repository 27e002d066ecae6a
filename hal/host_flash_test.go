//go:build !tinygo

package hal

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestHostFlashNORSemantics(t *testing.T) {
	f, err := openHostFlash(filepath.Join(t.TempDir(), "test.flash"))
	if err != nil {
		t.Fatalf("openHostFlash: %v", err)
	}
	defer f.Close()

	if f.Size() != hostFlashDefaultSizeBytes {
		t.Fatalf("Size() = %d, want %d", f.Size(), hostFlashDefaultSizeBytes)
	}

	buf := make([]byte, 4)
	if _, err := f.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	for _, b := range buf {
		if b != 0xFF {
			t.Fatalf("fresh flash byte = %#x, want 0xff", b)
		}
	}

	if _, err := f.WriteAt([]byte{0x0F}, 10); err != nil {
		t.Fatalf("WriteAt: %v", err)
	}
	if _, err := f.WriteAt([]byte{0xF0}, 10); !errors.Is(err, ErrFlashWriteRequiresErase) {
		t.Fatalf("WriteAt setting bits = %v, want ErrFlashWriteRequiresErase", err)
	}
	if err := f.EraseBlocks(0, 1); err != nil {
		t.Fatalf("EraseBlocks: %v", err)
	}
	if _, err := f.WriteAt([]byte{0xF0}, 10); err != nil {
		t.Fatalf("WriteAt after erase: %v", err)
	}
	if err := f.EraseBlocks(f.Size()/hostFlashEraseBlockBytes, 1); err == nil {
		t.Fatal("EraseBlocks past the end succeeded")
	}
}

func TestHostFlashReopenKeepsSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.flash")
	f, err := openHostFlash(path)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteAt([]byte{0x00}, 0)
	f.Close()

	f, err = openHostFlash(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()
	buf := make([]byte, 1)
	f.ReadAt(buf, 0)
	if buf[0] != 0 {
		t.Fatalf("byte after reopen = %#x, want 0", buf[0])
	}
}

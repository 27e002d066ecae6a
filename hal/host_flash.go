//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"tinygo.org/x/tinyfs"
)

const (
	hostFlashDefaultSizeBytes = 256 * 1024
	hostFlashEraseBlockBytes  = 4096
	hostFlashWriteBlockBytes  = 256
)

var ErrFlashWriteRequiresErase = errors.New("flash write requires erase")

// hostFlash is a NOR-flash image in a file, usable as a tinyfs block
// device. Writes can only clear bits; Erase sets whole blocks back to 0xFF.
type hostFlash struct {
	mu    sync.Mutex
	f     *os.File
	size  int64
	erase [hostFlashEraseBlockBytes]byte
}

func openHostFlash(path string) (*hostFlash, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	hf := &hostFlash{f: f, size: hostFlashDefaultSizeBytes}
	for i := range hf.erase {
		hf.erase[i] = 0xFF
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.Size() > 0 {
		if st.Size()%hostFlashEraseBlockBytes != 0 {
			f.Close()
			return nil, fmt.Errorf("%s: size %d is not a whole number of blocks", path, st.Size())
		}
		hf.size = st.Size()
		return hf, nil
	}
	for off := int64(0); off < hf.size; off += hostFlashEraseBlockBytes {
		if _, err := f.WriteAt(hf.erase[:], off); err != nil {
			f.Close()
			return nil, fmt.Errorf("init %s: %w", path, err)
		}
	}
	return hf, nil
}

func (f *hostFlash) Size() int64           { return f.size }
func (f *hostFlash) WriteBlockSize() int64 { return hostFlashWriteBlockBytes }
func (f *hostFlash) EraseBlockSize() int64 { return hostFlashEraseBlockBytes }

func (f *hostFlash) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if off < 0 || off >= f.size {
		return 0, fmt.Errorf("flash read at %d: %w", off, os.ErrInvalid)
	}
	if room := f.size - off; int64(len(p)) > room {
		p = p[:room]
	}
	n, err := f.f.ReadAt(p, off)
	if errors.Is(err, io.EOF) && n == len(p) {
		err = nil
	}
	return n, err
}

func (f *hostFlash) WriteAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if off < 0 || off >= f.size {
		return 0, fmt.Errorf("flash write at %d: %w", off, os.ErrInvalid)
	}
	if room := f.size - off; int64(len(p)) > room {
		p = p[:room]
	}

	buf := make([]byte, len(p))
	if _, err := f.f.ReadAt(buf, off); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("flash read before write at %d: %w", off, err)
	}
	for i := range p {
		if buf[i]&p[i] != p[i] {
			return 0, ErrFlashWriteRequiresErase
		}
	}
	return f.f.WriteAt(p, off)
}

// EraseBlocks erases n blocks starting at block index start.
func (f *hostFlash) EraseBlocks(start, n int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if n == 0 {
		return nil
	}
	off := start * hostFlashEraseBlockBytes
	if start < 0 || n < 0 || off+n*hostFlashEraseBlockBytes > f.size {
		return fmt.Errorf("flash erase start=%d n=%d: %w", start, n, os.ErrInvalid)
	}
	for ; n > 0; n-- {
		if _, err := f.f.WriteAt(f.erase[:], off); err != nil {
			return fmt.Errorf("flash erase block at %d: %w", off, err)
		}
		off += hostFlashEraseBlockBytes
	}
	return nil
}

func (f *hostFlash) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.Close()
}

// FlashFile is a flash image on disk, the storage of the simulator boards.
type FlashFile interface {
	tinyfs.BlockDevice
	Close() error
}

// OpenFlashFile opens the image at path, creating an erased one if needed.
func OpenFlashFile(path string) (FlashFile, error) {
	f, err := openHostFlash(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

//go:build tinygo && baremetal && (rp2040 || rp2350 || nrf52840 || atsamd51)

package hal

import (
	"machine"

	"tinygo.org/x/tinyfs"
)

// newFlashStorage exposes the spare on-chip flash after the program image.
func newFlashStorage() tinyfs.BlockDevice {
	if machine.Flash.Size() <= 0 {
		return nil
	}
	return machine.Flash
}

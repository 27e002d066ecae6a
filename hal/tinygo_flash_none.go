//go:build tinygo && baremetal && !(rp2040 || rp2350 || nrf52840 || atsamd51)

package hal

import "tinygo.org/x/tinyfs"

// newFlashStorage reports no storage on chips without a machine.Flash
// block device; the flight log stays off.
func newFlashStorage() tinyfs.BlockDevice { return nil }

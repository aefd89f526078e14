// Package protocol implements the WS2812 matrix BLE command protocol.
//
// Commands and acknowledgements share a single frame envelope:
//
//	header(2, 0xAA55 BE) version(1) event(1) subevent(1) seq(1) len(1) payload(0..32) checksum(1)
//
// The checksum is the XOR of every byte that precedes it. Frames are
// written to the command characteristic of the matrix GATT service;
// the device acknowledges over the same characteristic via notifications.
//
// The package is pure: no I/O, no dependency on a BLE stack. Everything
// here can be exercised without hardware.
package protocol

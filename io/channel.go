// Package io provides the I/O channels of the micro8 machine: the console
// tape used by the PRT and RDD instructions, and the fixed-capacity ROM the
// program image is loaded into.
package io

// Channel defines the interface for the console attached to the CPU.
// Values cross the channel one 8-bit register at a time.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive blocks for the next value from the channel.
	Receive() (value uint8, err error)
	// Send writes a single value to the channel.
	Send(value uint8) error
}

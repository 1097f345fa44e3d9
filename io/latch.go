// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package io

// Latch holds the last byte written to it.
type Latch struct {
	Value uint8
}

var _ Port = (*Latch)(nil)

func (lc *Latch) Validate(slot uint16, write bool) (err error) {
	return
}

func (lc *Latch) Read(slot uint16) (value uint8, err error) {
	value = lc.Value
	return
}

func (lc *Latch) Write(slot uint16, value uint8) (err error) {
	lc.Value = value
	return
}

func (lc *Latch) Reset() {
	lc.Value = 0
}

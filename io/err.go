package io

import (
	"errors"

	"github.com/ezrec/teenyat/translate"
)

var f = translate.From

var (
	// Device errors
	ErrDeviceFull    = errors.New(f("device full"))
	ErrDeviceOverlap = errors.New(f("device overlaps a mapped device"))
	ErrDeviceRange   = errors.New(f("device outside of peripheral space"))
)

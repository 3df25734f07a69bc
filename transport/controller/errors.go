package controller

import "errors"

var (
	// ErrProtocolParse is returned for a line that matches no grammar
	ErrProtocolParse = errors.New("unrecognized controller message")
	// ErrDeviceUnavailable is returned when no serial device can be found or opened
	ErrDeviceUnavailable = errors.New("controller device unavailable")
	// ErrNotConnected is returned when writing without an open device
	ErrNotConnected = errors.New("controller not connected")
)

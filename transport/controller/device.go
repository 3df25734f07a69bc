package controller

import (
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const (
	DefaultBaudRate    = 9600
	DefaultReadTimeout = 100 * time.Millisecond
)

// DefaultHints are matched against port descriptions during auto-detection
var DefaultHints = []string{"arduino", "usb"}

// Port is the subset of serial.Port the controller uses
type Port interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetReadTimeout(t time.Duration) error
	Close() error
}

// PortInfo describes one serial device
type PortInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsUSB       bool   `json:"is_usb"`
	VID         string `json:"vid,omitempty"`
	PID         string `json:"pid,omitempty"`
	Serial      string `json:"serial,omitempty"`
}

// openPort and listDetailed are swapped in tests
var (
	openPort = func(name string, baud int) (Port, error) {
		return serial.Open(name, &serial.Mode{BaudRate: baud})
	}
	listDetailed = enumerator.GetDetailedPortsList
	listNames    = serial.GetPortsList
)

// ListPorts returns every serial device the OS reports
func ListPorts() ([]PortInfo, error) {
	details, err := listDetailed()
	if err == nil && len(details) > 0 {
		ports := make([]PortInfo, 0, len(details))
		for _, d := range details {
			ports = append(ports, PortInfo{
				Name:        d.Name,
				Description: describePort(d),
				IsUSB:       d.IsUSB,
				VID:         d.VID,
				PID:         d.PID,
				Serial:      d.SerialNumber,
			})
		}
		return ports, nil
	}

	// The detailed enumerator is not available everywhere; fall back to bare names.
	names, nameErr := listNames()
	if nameErr != nil {
		if err != nil {
			return nil, fmt.Errorf("list serial ports: %w", err)
		}
		return nil, fmt.Errorf("list serial ports: %w", nameErr)
	}
	ports := make([]PortInfo, 0, len(names))
	for _, n := range names {
		ports = append(ports, PortInfo{Name: n, Description: n})
	}
	return ports, nil
}

// FindPort picks the first device whose description contains one of hints,
// falling back to the first device listed.
func FindPort(hints []string) (string, error) {
	ports, err := ListPorts()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if len(ports) == 0 {
		return "", fmt.Errorf("%w: no serial ports found", ErrDeviceUnavailable)
	}
	if len(hints) == 0 {
		hints = DefaultHints
	}

	for _, p := range ports {
		desc := strings.ToLower(p.Description)
		for _, h := range hints {
			if h != "" && strings.Contains(desc, strings.ToLower(h)) {
				return p.Name, nil
			}
		}
	}
	return ports[0].Name, nil
}

func describePort(d *enumerator.PortDetails) string {
	parts := []string{d.Name}
	if d.Product != "" {
		parts = append(parts, d.Product)
	}
	if d.IsUSB {
		parts = append(parts, fmt.Sprintf("USB %s:%s", d.VID, d.PID))
	}
	return strings.Join(parts, " ")
}

package controller

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

// Config holds controller connection settings
type Config struct {
	PortName    string        // empty means auto-detect
	BaudRate    int           // defaults to 9600
	Hints       []string      // auto-detect description hints
	ReadTimeout time.Duration // per-read timeout on the device
	Debounce    time.Duration
	TestMode    bool
	Clock       Clock
}

// Input is what one Poll produced
type Input struct {
	Message
	Accepted bool   // passed the debouncer, the grammar and the dispatch policy
	Intent   Intent // set for legacy input
	Err      error  // parse failure, if any
}

// maxLineLength bounds a line that never sees its newline
const maxLineLength = 1024

type line struct {
	text string
	at   time.Time
}

// Controller reads actions from a serial controller or, in test mode, from a queue
type Controller struct {
	cfg       Config
	clock     Clock
	debouncer *Debouncer

	mu       sync.Mutex
	port     Port
	portName string
	lines    chan line
	queue    []string
	state    State
	cancel   context.CancelFunc
	done     chan struct{}
}

// New creates a controller; call Connect before polling a real device
func New(cfg Config) *Controller {
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	clock := cfg.Clock
	if clock == nil {
		clock = RealClock{}
	}
	return &Controller{
		cfg:       cfg,
		clock:     clock,
		debouncer: NewDebouncer(cfg.Debounce),
		lines:     make(chan line, 64),
		state:     StateWaitingForRoll,
	}
}

// Connect opens the configured or auto-detected device and starts the read pump.
// Failure is reported as ErrDeviceUnavailable and leaves the controller usable with no input.
func (c *Controller) Connect(ctx context.Context) error {
	if c.cfg.TestMode {
		log.Printf("Controller in test mode, no device needed")
		return nil
	}

	name := c.cfg.PortName
	if name == "" {
		found, err := FindPort(c.cfg.Hints)
		if err != nil {
			return err
		}
		name = found
	}

	port, err := openPort(name, c.cfg.BaudRate)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrDeviceUnavailable, name, err)
	}
	if err := port.SetReadTimeout(c.cfg.ReadTimeout); err != nil {
		port.Close()
		return fmt.Errorf("%w: set timeout on %s: %v", ErrDeviceUnavailable, name, err)
	}

	pumpCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	c.mu.Lock()
	c.port = port
	c.portName = name
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go c.readPump(pumpCtx, port, done)
	log.Printf("Connected to controller on %s at %d baud", name, c.cfg.BaudRate)
	return nil
}

// Connected reports whether a device is open
func (c *Controller) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.port != nil
}

// PortName returns the device in use, if any
func (c *Controller) PortName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.portName
}

// Close stops the read pump and closes the device. Safe to call at any time.
func (c *Controller) Close() error {
	c.mu.Lock()
	port, cancel, done := c.port, c.cancel, c.done
	c.port, c.cancel, c.done = nil, nil, nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if port == nil {
		return nil
	}
	err := port.Close()
	if done != nil {
		<-done
	}
	log.Printf("Disconnected from controller")
	return err
}

// readPump turns device reads into timestamped lines. A read timeout returns no data
// and is not an error.
func (c *Controller) readPump(ctx context.Context, port Port, done chan struct{}) {
	defer close(done)

	buf := make([]byte, 256)
	var partial []byte
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := port.Read(buf)
		if n > 0 {
			partial = append(partial, buf[:n]...)
			for {
				i := bytes.IndexByte(partial, '\n')
				if i < 0 {
					break
				}
				c.deliver(ctx, string(partial[:i]))
				partial = partial[i+1:]
			}
			if len(partial) > maxLineLength {
				partial = partial[:0]
			}
		}
		if err == nil {
			continue
		}
		var portErr *serial.PortError
		if errors.As(err, &portErr) && portErr.Code() == serial.PortClosed {
			return
		}
		if ctx.Err() == nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("Error reading controller: %v", err)
			}
			c.dropPort(port)
		}
		return
	}
}

func (c *Controller) deliver(ctx context.Context, text string) {
	select {
	case c.lines <- line{text: text, at: c.clock.Now()}:
	case <-ctx.Done():
	default:
		log.Printf("Controller input buffer full, dropping %q", strings.TrimSpace(text))
	}
}

// dropPort forgets a device that failed; input stays empty afterwards
func (c *Controller) dropPort(port Port) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.port == port {
		c.port.Close()
		c.port = nil
		log.Printf("%v: connection to %s lost", ErrDeviceUnavailable, c.portName)
	}
}

// Queue adds synthetic lines for test mode, replayed in order
func (c *Controller) Queue(lines ...string) {
	c.mu.Lock()
	c.queue = append(c.queue, lines...)
	c.mu.Unlock()
}

// Pending returns how many queued test lines are left
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// SetState sets what the game is waiting for
func (c *Controller) SetState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// State returns the current game state tag
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Poll returns at most one decoded input without blocking. The bool is false when
// nothing arrived, or when the line was swallowed by the debouncer.
func (c *Controller) Poll(currentPlayer int) (Input, bool) {
	if c.cfg.TestMode {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.mu.Unlock()
			return Input{}, false
		}
		text := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()
		return c.decode(text, currentPlayer), true
	}

	var in line
	select {
	case in = <-c.lines:
	default:
		return Input{}, false
	}

	if strings.TrimSpace(in.text) == "" {
		return Input{}, false
	}
	if !c.debouncer.Accept(in.at) {
		return Input{}, false
	}
	return c.decode(in.text, currentPlayer), true
}

func (c *Controller) decode(text string, currentPlayer int) Input {
	msg, err := Decode(text)
	if err != nil {
		return Input{Message: msg, Err: err}
	}
	in := Input{Message: msg, Accepted: Accepts(msg, currentPlayer)}
	if msg.Form == FormLegacy {
		in.Intent = IntentFor(c.State(), msg.Legacy)
	}
	return in
}

// SendProperty tells the controller which space the current player is on. Best-effort.
func (c *Controller) SendProperty(name string) error {
	if c.cfg.TestMode {
		return nil
	}
	c.mu.Lock()
	port := c.port
	c.mu.Unlock()
	if port == nil {
		return ErrNotConnected
	}
	_, err := fmt.Fprintf(port, "Property: %s\n", name)
	return err
}

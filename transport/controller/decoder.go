package controller

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gouripri/Digiware-Monopoly/game/engine"
)

// Form identifies which grammar matched a line
type Form int

const (
	FormNone Form = iota
	FormBare
	FormAddressed
	FormLegacy
)

func (f Form) String() string {
	switch f {
	case FormBare:
		return "bare"
	case FormAddressed:
		return "addressed"
	case FormLegacy:
		return "legacy"
	}
	return "none"
}

// Legacy is an input from the older rotary encoder protocol
type Legacy struct {
	Direction int // +1 clockwise, -1 counterclockwise, 0 none
	Button    bool
}

// Message is the tagged result of decoding one line
type Message struct {
	Form      Form
	HasAction bool
	Player    int    // 1-indexed, 0 for legacy input
	Action    string // upper-cased
	Legacy    Legacy
	Raw       string
}

type parser func(line string) (Message, bool)

// parsers are tried in order; the first match wins
var parsers = []parser{parseBare, parseAddressed, parseLegacy}

var addressedPattern = regexp.MustCompile(`^[Pp]([0-9]+),(.*)$`)

// Decode parses one line. Lines matching no grammar return ErrProtocolParse.
func Decode(line string) (Message, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Message{Raw: line}, fmt.Errorf("%w: empty line", ErrProtocolParse)
	}
	for _, parse := range parsers {
		if msg, ok := parse(trimmed); ok {
			msg.Raw = line
			return msg, nil
		}
	}
	return Message{Raw: line}, fmt.Errorf("%w: %q", ErrProtocolParse, trimmed)
}

func parseBare(line string) (Message, bool) {
	action := strings.ToUpper(line)
	switch action {
	case engine.ActionRoll, engine.ActionBuy, engine.ActionPass:
		return Message{Form: FormBare, HasAction: true, Player: 1, Action: action}, true
	}
	return Message{}, false
}

func parseAddressed(line string) (Message, bool) {
	m := addressedPattern.FindStringSubmatch(line)
	if m == nil {
		return Message{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return Message{}, false
	}
	action := strings.ToUpper(strings.TrimSpace(m[2]))
	return Message{Form: FormAddressed, HasAction: action != "", Player: n, Action: action}, true
}

// parseLegacy checks counterclockwise first, since "counterclockwise" also contains "clockwise"
func parseLegacy(line string) (Message, bool) {
	s := strings.ToLower(line)
	var in Legacy
	switch {
	case strings.Contains(s, "counterclockwise") || strings.Contains(s, "ccw") || s == "-1":
		in.Direction = -1
	case strings.Contains(s, "clockwise") || strings.Contains(s, "cw") || s == "1":
		in.Direction = 1
	}
	if strings.Contains(s, "button") || strings.Contains(s, "press") || strings.Contains(s, "b") {
		in.Button = true
	}
	if in.Direction == 0 && !in.Button {
		return Message{}, false
	}
	return Message{Form: FormLegacy, Legacy: in}, true
}

package injection

import (
	"errors"
	"fmt"
	"strings"
)

// FaultWidth is the number of bits flipped on one side of a word.
type FaultWidth int

// Fault widths. The flipped bits are always the lowest ones.
const (
	None FaultWidth = iota
	OneBit
	TwoBit
)

// Mask returns the XOR mask that flips the bits.
func (w FaultWidth) Mask() uint64 {
	switch w {
	case None:
		return 0
	case OneBit:
		return 1
	case TwoBit:
		return 3
	default:
		panic(fmt.Sprintf("unknown fault width %d", int(w)))
	}
}

// Bits returns the number of flipped bits.
func (w FaultWidth) Bits() int {
	return int(w)
}

func (w FaultWidth) String() string {
	switch w {
	case None:
		return "none"
	case OneBit:
		return "1bit"
	case TwoBit:
		return "2bit"
	default:
		return fmt.Sprintf("FaultWidth(%d)", int(w))
	}
}

// ParseFaultWidth parses the output of FaultWidth.String.
func ParseFaultWidth(s string) (FaultWidth, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "0":
		return None, nil
	case "1bit", "1":
		return OneBit, nil
	case "2bit", "2":
		return TwoBit, nil
	default:
		return None, fmt.Errorf("unknown fault width %q", s)
	}
}

// ErrTooManyFlippedBits is returned for presets the checker cannot tell
// apart from another error.
var ErrTooManyFlippedBits = errors.New(
	"ecc cannot handle more than 2 flipped bits in data and parity")

// Preset selects how many bits of the data and of the parity get flipped.
type Preset struct {
	Data   FaultWidth
	Parity FaultWidth
}

// Named presets.
var (
	PresetClean                 = Preset{Data: None, Parity: None}
	PresetCorrectableByParity   = Preset{Data: None, Parity: OneBit}
	PresetCorrectableByData     = Preset{Data: OneBit, Parity: None}
	PresetUncorrectableByParity = Preset{Data: None, Parity: TwoBit}
	PresetUncorrectableByData   = Preset{Data: TwoBit, Parity: None}
	PresetUncorrectableMixed    = Preset{Data: OneBit, Parity: OneBit}
)

var presetNames = map[string]Preset{
	"clean":                PresetClean,
	"correctable-parity":   PresetCorrectableByParity,
	"correctable-data":     PresetCorrectableByData,
	"uncorrectable-parity": PresetUncorrectableByParity,
	"uncorrectable-data":   PresetUncorrectableByData,
	"uncorrectable-mixed":  PresetUncorrectableMixed,
}

// Validate rejects presets that flip more than 2 bits in total.
func (p Preset) Validate() error {
	if p.Data < None || p.Data > TwoBit || p.Parity < None || p.Parity > TwoBit {
		return fmt.Errorf("invalid preset %s", p)
	}

	switch p.Parity {
	case OneBit:
		if p.Data == TwoBit {
			return fmt.Errorf("%w: %s", ErrTooManyFlippedBits, p)
		}
	case TwoBit:
		if p.Data != None {
			return fmt.Errorf("%w: %s", ErrTooManyFlippedBits, p)
		}
	}

	return nil
}

func (p Preset) String() string {
	return fmt.Sprintf("data=%s,parity=%s", p.Data, p.Parity)
}

// ParsePreset accepts a preset name or the "data=<w>,parity=<w>" form. The
// result is validated.
func ParsePreset(s string) (Preset, error) {
	if p, ok := presetNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}

	p := Preset{}

	for _, field := range strings.Split(s, ",") {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			return Preset{}, fmt.Errorf("cannot parse preset %q", s)
		}

		w, err := ParseFaultWidth(kv[1])
		if err != nil {
			return Preset{}, fmt.Errorf("cannot parse preset %q: %w", s, err)
		}

		switch strings.TrimSpace(kv[0]) {
		case "data":
			p.Data = w
		case "parity":
			p.Parity = w
		default:
			return Preset{}, fmt.Errorf("unknown preset field %q", kv[0])
		}
	}

	if err := p.Validate(); err != nil {
		return Preset{}, err
	}

	return p, nil
}

// PresetNames lists the names accepted by ParsePreset.
func PresetNames() []string {
	return []string{
		"clean",
		"correctable-parity",
		"correctable-data",
		"uncorrectable-parity",
		"uncorrectable-data",
		"uncorrectable-mixed",
	}
}

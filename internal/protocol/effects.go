package protocol

import "fmt"

// Param describes one tunable parameter of an effect. Values are single
// bytes on the wire, transmitted in the order the params are declared.
type Param struct {
	Name    string `json:"name"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Default int    `json:"default"`
}

// Effect is one entry of the firmware effect catalog. Effects without
// params send the fixed default payload 0x01.
type Effect struct {
	Name   string  `json:"name"`
	Code   byte    `json:"code"`
	Params []Param `json:"params,omitempty"`
}

var (
	directionParams = []Param{
		{Name: "intensity", Min: 1, Max: 255, Default: 128},
		{Name: "speed", Min: 1, Max: 10, Default: 5},
	}
	auroraParams = []Param{
		{Name: "wave_speed", Min: 1, Max: 20, Default: 10},
		{Name: "brightness", Min: 1, Max: 255, Default: 180},
	}
	animationParams = []Param{
		{Name: "speed", Min: 1, Max: 20, Default: 8},
		{Name: "brightness", Min: 1, Max: 255, Default: 200},
	}
)

// effects mirrors the firmware catalog. Codes 0x01-0x09 are the turn/forward
// direction effects, 0x10-0x14 the ambient animations.
var effects = []Effect{
	{Name: "Water Effect", Code: 0x00},
	{Name: "Turn Left V1", Code: 0x01, Params: directionParams},
	{Name: "Turn Left V2", Code: 0x02, Params: directionParams},
	{Name: "Turn Left V3", Code: 0x03, Params: directionParams},
	{Name: "Turn Right V1", Code: 0x04, Params: directionParams},
	{Name: "Turn Right V2", Code: 0x05, Params: directionParams},
	{Name: "Turn Right V3", Code: 0x06, Params: directionParams},
	{Name: "Go Forward V1", Code: 0x07, Params: directionParams},
	{Name: "Go Forward V2", Code: 0x08, Params: directionParams},
	{Name: "Go Forward V3", Code: 0x09, Params: directionParams},
	{Name: "Aurora Wave", Code: 0x0A, Params: auroraParams},
	{Name: "Rainbow Cycle", Code: 0x10, Params: animationParams},
	{Name: "Plasma", Code: 0x11, Params: animationParams},
	{Name: "Ripple", Code: 0x12, Params: animationParams},
	{Name: "Cloud", Code: 0x13, Params: animationParams},
	{Name: "Cylon", Code: 0x14},
}

// Effects returns the effect catalog in firmware order.
func Effects() []Effect {
	out := make([]Effect, len(effects))
	copy(out, effects)
	return out
}

// EffectByCode looks up a catalog entry by its wire code.
func EffectByCode(code byte) (Effect, bool) {
	for _, e := range effects {
		if e.Code == code {
			return e, true
		}
	}
	return Effect{}, false
}

// BuildPayload assembles the effect payload from the given parameter values.
// Missing params fall back to their defaults; unknown names and out-of-range
// values are rejected. Effects without params produce the fixed payload 0x01.
func (e Effect) BuildPayload(values map[string]int) ([]byte, error) {
	if len(e.Params) == 0 {
		if len(values) != 0 {
			return nil, fmt.Errorf("matrixgui: effect %q takes no parameters", e.Name)
		}
		return []byte{0x01}, nil
	}

	known := make(map[string]bool, len(e.Params))
	for _, p := range e.Params {
		known[p.Name] = true
	}
	for name := range values {
		if !known[name] {
			return nil, fmt.Errorf("matrixgui: effect %q has no parameter %q", e.Name, name)
		}
	}

	payload := make([]byte, 0, len(e.Params))
	for _, p := range e.Params {
		v, ok := values[p.Name]
		if !ok {
			v = p.Default
		}
		if v < p.Min || v > p.Max {
			return nil, fmt.Errorf("matrixgui: parameter %q = %d outside range %d-%d", p.Name, v, p.Min, p.Max)
		}
		payload = append(payload, byte(v))
	}
	return payload, nil
}

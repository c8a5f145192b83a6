package rule

import (
	"strconv"
	"strings"
)

// Function names a paint primitive. FunctionUnknown is assigned to names
// outside the vocabulary and never matches a query.
type Function int

const (
	FunctionUnknown Function = iota
	FunctionHLine
	FunctionVLine
	FunctionShadow
	FunctionPolygon
	FunctionArrow
	FunctionDiamond
	FunctionOval
	FunctionString
	FunctionBox
	FunctionFlatBox
	FunctionCheck
	FunctionOption
	FunctionCross
	FunctionRamp
	FunctionTab
	FunctionShadowGap
	FunctionBoxGap
	FunctionExtension
	FunctionFocus
	FunctionSlider
	FunctionEntry
	FunctionHandle
	FunctionStepper
	FunctionBackground
	FunctionLayout
)

var functionNames = []string{
	FunctionUnknown:    "UNKNOWN",
	FunctionHLine:      "HLINE",
	FunctionVLine:      "VLINE",
	FunctionShadow:     "SHADOW",
	FunctionPolygon:    "POLYGON",
	FunctionArrow:      "ARROW",
	FunctionDiamond:    "DIAMOND",
	FunctionOval:       "OVAL",
	FunctionString:     "STRING",
	FunctionBox:        "BOX",
	FunctionFlatBox:    "FLAT_BOX",
	FunctionCheck:      "CHECK",
	FunctionOption:     "OPTION",
	FunctionCross:      "CROSS",
	FunctionRamp:       "RAMP",
	FunctionTab:        "TAB",
	FunctionShadowGap:  "SHADOW_GAP",
	FunctionBoxGap:     "BOX_GAP",
	FunctionExtension:  "EXTENSION",
	FunctionFocus:      "FOCUS",
	FunctionSlider:     "SLIDER",
	FunctionEntry:      "ENTRY",
	FunctionHandle:     "HANDLE",
	FunctionStepper:    "STEPPER",
	FunctionBackground: "BACKGROUND",
	FunctionLayout:     "LAYOUT",
}

func (f Function) String() string { return enumName(functionNames, int(f)) }

// IsGap reports whether the primitive paints a gap along one side.
func (f Function) IsGap() bool {
	return f == FunctionBoxGap || f == FunctionShadowGap
}

// Functions returns every known primitive in declaration order.
func Functions() []Function {
	out := make([]Function, 0, len(functionNames)-1)
	for i := 1; i < len(functionNames); i++ {
		out = append(out, Function(i))
	}
	return out
}

// ParseFunction resolves a primitive name case-insensitively.
func ParseFunction(name string) (Function, bool) {
	v, ok := parseEnum(functionNames, name)
	return Function(v), ok
}

// State is the widget state a rule applies to.
type State int

const (
	StateUnset State = iota
	StateNormal
	StateActive
	StatePrelight
	StateSelected
	StateInsensitive
)

var stateNames = []string{"", "NORMAL", "ACTIVE", "PRELIGHT", "SELECTED", "INSENSITIVE"}

func (s State) String() string { return enumName(stateNames, int(s)) }

// States returns the concrete states.
func States() []State {
	return []State{StateNormal, StateActive, StatePrelight, StateSelected, StateInsensitive}
}

// ParseState resolves a state name case-insensitively.
func ParseState(name string) (State, bool) {
	v, ok := parseEnum(stateNames, name)
	return State(v), ok
}

// Shadow is the bevel style a rule applies to.
type Shadow int

const (
	ShadowUnset Shadow = iota
	ShadowNone
	ShadowIn
	ShadowOut
	ShadowEtchedIn
	ShadowEtchedOut
)

var shadowNames = []string{"", "NONE", "IN", "OUT", "ETCHED_IN", "ETCHED_OUT"}

func (s Shadow) String() string { return enumName(shadowNames, int(s)) }

// ParseShadow resolves a shadow name case-insensitively.
func ParseShadow(name string) (Shadow, bool) {
	v, ok := parseEnum(shadowNames, name)
	return Shadow(v), ok
}

// Orientation of the painted element.
type Orientation int

const (
	OrientationUnset Orientation = iota
	OrientationHorizontal
	OrientationVertical
)

var orientationNames = []string{"", "HORIZONTAL", "VERTICAL"}

func (o Orientation) String() string { return enumName(orientationNames, int(o)) }

// ParseOrientation resolves an orientation name case-insensitively.
func ParseOrientation(name string) (Orientation, bool) {
	v, ok := parseEnum(orientationNames, name)
	return Orientation(v), ok
}

// Side is the edge holding a gap.
type Side int

const (
	SideUnset Side = iota
	SideTop
	SideBottom
	SideLeft
	SideRight
)

var sideNames = []string{"", "TOP", "BOTTOM", "LEFT", "RIGHT"}

func (s Side) String() string { return enumName(sideNames, int(s)) }

// ParseSide resolves a side name case-insensitively.
func ParseSide(name string) (Side, bool) {
	v, ok := parseEnum(sideNames, name)
	return Side(v), ok
}

// Arrow is the direction an arrow points.
type Arrow int

const (
	ArrowUnset Arrow = iota
	ArrowUp
	ArrowDown
	ArrowLeft
	ArrowRight
)

var arrowNames = []string{"", "UP", "DOWN", "LEFT", "RIGHT"}

func (a Arrow) String() string { return enumName(arrowNames, int(a)) }

// ParseArrow resolves an arrow direction case-insensitively.
func ParseArrow(name string) (Arrow, bool) {
	v, ok := parseEnum(arrowNames, name)
	return Arrow(v), ok
}

func enumName(names []string, i int) string {
	if i >= 0 && i < len(names) {
		if names[i] == "" {
			return "*"
		}
		return names[i]
	}
	return strconv.Itoa(i)
}

// parseEnum never returns index 0; the zero value is reserved for "unset"
// or "unknown".
func parseEnum(names []string, name string) (int, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i := 1; i < len(names); i++ {
		if names[i] == name {
			return i, true
		}
	}
	return 0, false
}

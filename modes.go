package streetgraph

import (
	"github.com/golang/geo/r2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ModeKind is the active interaction mode of the editor.
// Exactly one is active at any time.
type ModeKind int

const (
	ModeIdle ModeKind = iota
	ModeCreateStreet
	ModeDeleteStreet
	ModeMoveControl
	ModeBoxSelect
	ModeCreateDistrict
	ModeDeleteDistrict
)

// AllModes in declaration order
var AllModes = []ModeKind{
	ModeIdle,
	ModeCreateStreet,
	ModeDeleteStreet,
	ModeMoveControl,
	ModeBoxSelect,
	ModeCreateDistrict,
	ModeDeleteDistrict,
}

// String returns the mode name
func (m ModeKind) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeCreateStreet:
		return "create_street"
	case ModeDeleteStreet:
		return "delete_street"
	case ModeMoveControl:
		return "move_control"
	case ModeBoxSelect:
		return "box_select"
	case ModeCreateDistrict:
		return "create_district"
	case ModeDeleteDistrict:
		return "delete_district"
	default:
		return "unknown"
	}
}

// ParseMode returns the ModeKind with the given name
func ParseMode(name string) (ModeKind, error) {
	for _, m := range AllModes {
		if m.String() == name {
			return m, nil
		}
	}
	return ModeIdle, errors.Wrapf(ErrUnknownMode, "%q", name)
}

// MouseButton is a pointer button
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonRight
	ButtonMiddle
)

// String returns the button name
func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// ParseButton returns the button with the given name, "" is left
func ParseButton(name string) (MouseButton, error) {
	switch name {
	case "", "left":
		return ButtonLeft, nil
	case "right":
		return ButtonRight, nil
	case "middle":
		return ButtonMiddle, nil
	}
	return ButtonLeft, errors.Errorf("unknown mouse button %q", name)
}

// streetPreview is the in-progress street of CreateStreet.
// The preview lives in the graph so it renders & moves like any street;
// it is always removed before the real street is created.
type streetPreview struct {
	start    uuid.UUID // existing intersection we snapped to, or previewStart
	startNew bool
	end      uuid.UUID // preview end intersection
	street   uuid.UUID

	snapped   uuid.UUID // intersection the end is currently snapped to
	isSnapped bool
}

// ids returns the ids of every preview element in the graph
func (p *streetPreview) ids() []uuid.UUID {
	out := []uuid.UUID{p.end, p.street}
	if p.startNew {
		out = append(out, p.start)
	}
	return out
}

// createStreetState is the transient state of ModeCreateStreet
type createStreetState struct {
	preview *streetPreview
}

// moveControlState is the transient state of ModeMoveControl
type moveControlState struct {
	gizmo    r2.Point
	hasGizmo bool

	dragging bool
	last     r2.Point
	origin   map[uuid.UUID]r2.Point
}

// boxSelectState is the transient state of ModeBoxSelect
type boxSelectState struct {
	active bool
	anchor r2.Point
	corner r2.Point
}

// modeState holds the state of whichever mode is active.
// Only the struct for the active kind is non nil.
type modeState struct {
	kind ModeKind

	createStreet *createStreetState
	moveControl  *moveControlState
	boxSelect    *boxSelectState

	// element under the pointer, for modes that hover something
	hover    uuid.UUID
	hovering bool
}

// SwitchMode exits the current mode & enters the given one.
// Switching to the active mode re-enters it.
func (e *Editor) SwitchMode(kind ModeKind) {
	old := e.mode.kind
	e.exit()
	e.enter(kind)

	modeSwitchesTotal.WithLabelValues(kind.String()).Inc()
	e.log.Debug("mode switched", "from", old.String(), "to", kind.String())
}

// Mode returns the active mode
func (e *Editor) Mode() ModeKind {
	return e.mode.kind
}

// enter sets up the state for kind
func (e *Editor) enter(kind ModeKind) {
	e.mode = modeState{kind: kind}

	switch kind {
	case ModeCreateStreet:
		e.mode.createStreet = &createStreetState{}
	case ModeMoveControl:
		e.mode.moveControl = &moveControlState{}
		e.placeGizmo()
	case ModeBoxSelect:
		e.mode.boxSelect = &boxSelectState{}
	}
}

// exit tears down the active mode, leaving nothing transient in the graph
func (e *Editor) exit() {
	switch e.mode.kind {
	case ModeCreateStreet:
		e.cancelPreview()
	case ModeMoveControl:
		e.cancelDrag()
	}
	e.clearHover()
	e.mode = modeState{kind: ModeIdle}
}

// mouseDown dispatches a press (world position) to the active mode
func (e *Editor) mouseDown(pos r2.Point, btn MouseButton) {
	switch e.mode.kind {
	case ModeCreateStreet:
		e.createStreetDown(pos, btn)
	case ModeMoveControl:
		e.moveControlDown(pos, btn)
	case ModeBoxSelect:
		e.boxSelectDown(pos, btn)
	}
}

// mouseMove dispatches pointer movement (world position) to the active mode
func (e *Editor) mouseMove(pos r2.Point) {
	switch e.mode.kind {
	case ModeCreateStreet:
		e.createStreetMove(pos)
	case ModeDeleteStreet, ModeCreateDistrict:
		e.hoverStreet(pos)
	case ModeDeleteDistrict:
		e.hoverDistrict(pos)
	case ModeMoveControl:
		e.moveControlMove(pos)
	case ModeBoxSelect:
		e.boxSelectMove(pos)
	}
}

// mouseUp dispatches a release (world position) to the active mode
func (e *Editor) mouseUp(pos r2.Point, btn MouseButton) {
	switch e.mode.kind {
	case ModeCreateStreet:
		e.createStreetUp(pos, btn)
	case ModeDeleteStreet:
		e.deleteStreetUp(pos, btn)
	case ModeMoveControl:
		e.moveControlUp(pos, btn)
	case ModeBoxSelect:
		e.boxSelectUp(pos, btn)
	case ModeCreateDistrict:
		e.createDistrictUp(pos, btn)
	case ModeDeleteDistrict:
		e.deleteDistrictUp(pos, btn)
	}
}

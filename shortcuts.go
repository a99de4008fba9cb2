package streetgraph

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Command is something the user can trigger from a shortcut
type Command int

const (
	CmdIdle Command = iota
	CmdCreateStreet
	CmdDeleteStreet
	CmdMoveControl
	CmdBoxSelect
	CmdCreateDistrict
	CmdDeleteDistrict
	CmdUndo
	CmdRedo
	CmdSave
	CmdLoad
	CmdToggleDebug
	CmdSync
	CmdGenerate
	CmdTraceAll
)

var commandNames = map[Command]string{
	CmdIdle:           "idle",
	CmdCreateStreet:   "create_street",
	CmdDeleteStreet:   "delete_street",
	CmdMoveControl:    "move_control",
	CmdBoxSelect:      "box_select",
	CmdCreateDistrict: "create_district",
	CmdDeleteDistrict: "delete_district",
	CmdUndo:           "undo",
	CmdRedo:           "redo",
	CmdSave:           "save",
	CmdLoad:           "load",
	CmdToggleDebug:    "debug",
	CmdSync:           "sync",
	CmdGenerate:       "generate",
	CmdTraceAll:       "trace_all",
}

// String returns the command name
func (c Command) String() string {
	name, ok := commandNames[c]
	if !ok {
		return "unknown"
	}
	return name
}

// ParseCommand returns the Command with the given name
func ParseCommand(name string) (Command, error) {
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}
	return CmdIdle, errors.Wrapf(ErrUnknownCommand, "%q", name)
}

// modeFor returns the mode a command activates, if it is a mode command
func (c Command) modeFor() (ModeKind, bool) {
	switch c {
	case CmdIdle:
		return ModeIdle, true
	case CmdCreateStreet:
		return ModeCreateStreet, true
	case CmdDeleteStreet:
		return ModeDeleteStreet, true
	case CmdMoveControl:
		return ModeMoveControl, true
	case CmdBoxSelect:
		return ModeBoxSelect, true
	case CmdCreateDistrict:
		return ModeCreateDistrict, true
	case CmdDeleteDistrict:
		return ModeDeleteDistrict, true
	}
	return ModeIdle, false
}

// Chord is a key pressed with zero or more modifiers.
type Chord struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Key   string
}

// ParseChord reads chords like "ctrl+shift+z" or "escape".
// Modifier order does not matter; the key is lower cased.
func ParseChord(in string) (Chord, error) {
	c := Chord{}
	parts := strings.Split(strings.ToLower(strings.TrimSpace(in)), "+")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i == len(parts)-1 {
			if p == "" {
				return c, errors.Errorf("chord %q has no key", in)
			}
			c.Key = p
			break
		}
		switch p {
		case "ctrl", "control":
			c.Ctrl = true
		case "shift":
			c.Shift = true
		case "alt":
			c.Alt = true
		default:
			return c, errors.Errorf("chord %q has unknown modifier %q", in, p)
		}
	}
	return c, nil
}

// MustChord is ParseChord for known good input
func MustChord(in string) Chord {
	c, err := ParseChord(in)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the chord in canonical form, eg. "ctrl+shift+z"
func (c Chord) String() string {
	parts := []string{}
	if c.Ctrl {
		parts = append(parts, "ctrl")
	}
	if c.Shift {
		parts = append(parts, "shift")
	}
	if c.Alt {
		parts = append(parts, "alt")
	}
	return strings.Join(append(parts, c.Key), "+")
}

// Shortcuts maps chords to commands, at most one command per chord.
type Shortcuts struct {
	bindings map[Chord]Command
}

// NewShortcuts returns an empty set of shortcuts
func NewShortcuts() *Shortcuts {
	return &Shortcuts{bindings: map[Chord]Command{}}
}

// DefaultShortcuts returns the standard key bindings.
func DefaultShortcuts() *Shortcuts {
	s := NewShortcuts()
	for chord, cmd := range map[string]Command{
		"ctrl+d": CmdCreateDistrict,
		"ctrl+f": CmdDeleteDistrict,
		"ctrl+s": CmdSave,
		"ctrl+o": CmdLoad,
		"ctrl+u": CmdToggleDebug,
		"ctrl+z": CmdUndo,
		"ctrl+y": CmdRedo,
		"ctrl+n": CmdCreateStreet,
		"ctrl+x": CmdDeleteStreet,
		"ctrl+m": CmdMoveControl,
		"ctrl+b": CmdBoxSelect,
		"escape": CmdIdle,
		"ctrl+r": CmdSync,
		"ctrl+g": CmdGenerate,
		"ctrl+t": CmdTraceAll,
	} {
		s.bindings[MustChord(chord)] = cmd
	}
	return s
}

// Bind the chord to cmd. Fails if the chord is bound to another command.
func (s *Shortcuts) Bind(chord Chord, cmd Command) error {
	existing, ok := s.bindings[chord]
	if ok && existing != cmd {
		return errors.Wrapf(ErrShortcutTaken, "%s is bound to %s", chord, existing)
	}
	s.bindings[chord] = cmd
	return nil
}

// Rebind moves cmd onto chord, dropping its previous chord(s).
func (s *Shortcuts) Rebind(chord Chord, cmd Command) error {
	existing, ok := s.bindings[chord]
	if ok && existing != cmd {
		return errors.Wrapf(ErrShortcutTaken, "%s is bound to %s", chord, existing)
	}
	for c, bound := range s.bindings {
		if bound == cmd {
			delete(s.bindings, c)
		}
	}
	s.bindings[chord] = cmd
	return nil
}

// Unbind removes the chord, if bound
func (s *Shortcuts) Unbind(chord Chord) {
	delete(s.bindings, chord)
}

// Lookup returns the command bound to chord
func (s *Shortcuts) Lookup(chord Chord) (Command, bool) {
	cmd, ok := s.bindings[chord]
	return cmd, ok
}

// Apply config overrides (chord -> command name) on top of the current bindings.
func (s *Shortcuts) Apply(overrides map[string]string) error {
	// sorted so conflicts are reported the same way every run
	chords := make([]string, 0, len(overrides))
	for chord := range overrides {
		chords = append(chords, chord)
	}
	sort.Strings(chords)

	for _, in := range chords {
		chord, err := ParseChord(in)
		if err != nil {
			return err
		}
		cmd, err := ParseCommand(overrides[in])
		if err != nil {
			return err
		}
		err = s.Rebind(chord, cmd)
		if err != nil {
			return err
		}
	}
	return nil
}

// Binding is one chord & its command
type Binding struct {
	Chord   Chord
	Command Command
}

// Bindings returns all bindings ordered by chord
func (s *Shortcuts) Bindings() []Binding {
	out := make([]Binding, 0, len(s.bindings))
	for c, cmd := range s.bindings {
		out = append(out, Binding{Chord: c, Command: cmd})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Chord.String() < out[j].Chord.String() })
	return out
}

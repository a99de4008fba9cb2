package streetgraph

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/voidshard/streetgraph/internal/encoding"
	"github.com/voidshard/streetgraph/internal/graph"
	"github.com/voidshard/streetgraph/internal/history"
)

// Options are the optional collaborators of an Editor
type Options struct {
	// Logger, slog.Default() if not given
	Logger *slog.Logger

	// Storage for Save / Load
	Storage Storage

	// Syncer for Sync
	Syncer Syncer
}

// Editor is an interactive street map editor.
//
// It owns the street graph, the undo history & the active mode; every input
// event is handled synchronously. An Editor is not safe for concurrent use.
type Editor struct {
	cfg *Config
	log *slog.Logger

	graph   *graph.Graph
	history *history.History[*graph.Graph]

	mode      modeState
	camera    *Camera
	shortcuts *Shortcuts
	layers    Layers
	scheme    *ColourScheme

	storage Storage
	syncer  Syncer

	// seeds house lot subdivision
	houseSeed int64

	panning bool
	lastPan r2.Point
}

// New creates an Editor with an empty map in Idle mode.
func New(cfg *Config, opts *Options) (*Editor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if opts == nil {
		opts = &Options{}
	}
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	shortcuts := DefaultShortcuts()
	err = shortcuts.Apply(cfg.Shortcuts)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := graph.New()
	e := &Editor{
		cfg:       cfg,
		log:       logger.With(slog.String("component", "editor")),
		graph:     g,
		history:   history.New(g, cfg.HistoryLimit),
		camera:    NewCamera(),
		shortcuts: shortcuts,
		layers:    DefaultLayers(),
		scheme:    DefaultScheme(),
		storage:   opts.Storage,
		syncer:    opts.Syncer,
		houseSeed: cfg.Districts.Seed,
	}
	if e.houseSeed == 0 {
		e.houseSeed = rand.Int64()
	}
	e.enter(ModeIdle)

	return e, nil
}

// Graph returns the live street graph. Callers must not mutate it.
func (e *Editor) Graph() *graph.Graph {
	return e.graph
}

// Config returns the editor config
func (e *Editor) Config() *Config {
	return e.cfg
}

// Camera returns the camera used to convert input & render
func (e *Editor) Camera() *Camera {
	return e.camera
}

// Shortcuts returns the key bindings
func (e *Editor) Shortcuts() *Shortcuts {
	return e.shortcuts
}

// MouseDown handles a button press at a screen position.
// The middle button pans the camera in every mode.
func (e *Editor) MouseDown(screen r2.Point, btn MouseButton) {
	if btn == ButtonMiddle {
		e.panning = true
		e.lastPan = screen
		return
	}
	e.mouseDown(e.camera.ToWorld(screen), btn)
}

// MouseMove handles pointer movement to a screen position.
func (e *Editor) MouseMove(screen r2.Point) {
	if e.panning {
		e.camera.Pan(screen.Sub(e.lastPan))
		e.lastPan = screen
		return
	}
	e.mouseMove(e.camera.ToWorld(screen))
}

// MouseUp handles a button release at a screen position.
func (e *Editor) MouseUp(screen r2.Point, btn MouseButton) {
	if btn == ButtonMiddle {
		e.panning = false
		return
	}
	e.mouseUp(e.camera.ToWorld(screen), btn)
}

// Zoom by factor around a screen position
func (e *Editor) Zoom(screen r2.Point, factor float64) {
	e.camera.ZoomAt(screen, factor)
}

// KeyDown runs the command bound to chord, if any.
// Returns false if nothing is bound.
func (e *Editor) KeyDown(ctx context.Context, chord Chord) (bool, error) {
	cmd, ok := e.shortcuts.Lookup(chord)
	if !ok {
		return false, nil
	}
	return true, e.Execute(ctx, cmd)
}

// Execute runs a command.
func (e *Editor) Execute(ctx context.Context, cmd Command) error {
	err := e.execute(ctx, cmd)

	result := "ok"
	if err != nil {
		result = "error"
		e.log.Warn("command failed", "command", cmd.String(), "err", err)
	}
	commandsTotal.WithLabelValues(cmd.String(), result).Inc()

	return err
}

func (e *Editor) execute(ctx context.Context, cmd Command) error {
	if kind, ok := cmd.modeFor(); ok {
		e.SwitchMode(kind)
		return nil
	}

	switch cmd {
	case CmdUndo:
		e.Undo()
	case CmdRedo:
		e.Redo()
	case CmdSave:
		return e.Save(ctx)
	case CmdLoad:
		return e.Load(ctx)
	case CmdToggleDebug:
		e.ToggleDebug()
	case CmdSync:
		return e.Sync()
	case CmdGenerate:
		_, err := e.Generate()
		return err
	case CmdTraceAll:
		e.TraceAll()
	default:
		return errors.Wrapf(ErrUnknownCommand, "%d", cmd)
	}
	return nil
}

// perform applies & records an action.
// An action that fails to apply changes nothing & is not recorded.
func (e *Editor) perform(a Action) error {
	if c, ok := a.(applier); ok {
		err := c.Apply(e.graph)
		if err != nil {
			actionsTotal.WithLabelValues(actionKind(a), "rejected").Inc()
			e.log.Warn("action rejected", "action", a.String(), "err", err)
			return err
		}
		e.history.Record(a)
	} else {
		e.history.Perform(a)
	}

	actionsTotal.WithLabelValues(actionKind(a), "perform").Inc()
	e.log.Debug("action performed", "action", a.String())
	return nil
}

// Undo reverts the last action. Any in-progress mode interaction is
// dropped first so it cannot refer to undone elements.
func (e *Editor) Undo() bool {
	kind := e.mode.kind
	e.exit()
	a, ok := e.history.Undo()
	e.enter(kind)

	if ok {
		actionsTotal.WithLabelValues(actionKind(a), "undo").Inc()
		e.log.Debug("action undone", "action", a.String())
	}
	return ok
}

// Redo re-applies the last undone action.
func (e *Editor) Redo() bool {
	kind := e.mode.kind
	e.exit()
	a, ok := e.history.Redo()
	e.enter(kind)

	if ok {
		actionsTotal.WithLabelValues(actionKind(a), "redo").Inc()
		e.log.Debug("action redone", "action", a.String())
	}
	return ok
}

// History returns (undoable, redoable) counts & the undoable action labels
func (e *Editor) History() (int, int, []string) {
	undo, redo := e.history.Stats()
	return undo, redo, e.history.Labels()
}

// ToggleDebug flips the debug overlay layer
func (e *Editor) ToggleDebug() bool {
	on := !e.layers.Has(LayerDebug)
	e.layers.Set(LayerDebug, on)
	return on
}

// Layers returns the layers drawn by Render
func (e *Editor) Layers() Layers {
	return e.layers
}

// snapshot returns a copy of the graph without mode previews
func (e *Editor) snapshot() *graph.Graph {
	g := e.graph.Clone()
	preview := e.previewIDs()
	for _, id := range preview {
		g.RemoveStreet(id)
	}
	for _, id := range preview {
		g.RemoveIntersection(id, true)
	}
	g.ResetStates()
	return g
}

// Document returns the map as a saveable document
func (e *Editor) Document() *encoding.Document {
	return encoding.FromGraph(e.snapshot())
}

// JSON returns the map as json.
func (e *Editor) JSON() ([]byte, error) {
	return json.Marshal(e.Document())
}

// SaveJSON writes a json file to the given path.
func (e *Editor) SaveJSON(fpath string) error {
	data, err := e.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(fpath, data, 0644)
}

// Save writes the map to Storage under the configured app name.
func (e *Editor) Save(ctx context.Context) error {
	if e.storage == nil {
		return ErrNoStorage
	}
	data, err := e.JSON()
	if err != nil {
		return err
	}

	err = e.storage.Save(ctx, e.cfg.AppName, data)
	if err != nil {
		e.log.Error("failed to save map", "key", e.cfg.AppName, "err", err)
		return errors.Wrap(err, "saving map")
	}

	e.log.Info("map saved", "key", e.cfg.AppName, "bytes", len(data))
	return nil
}

// Load replaces the map with the one in Storage & clears history.
func (e *Editor) Load(ctx context.Context) error {
	if e.storage == nil {
		return ErrNoStorage
	}

	data, err := e.storage.Load(ctx, e.cfg.AppName)
	if err != nil {
		e.log.Error("failed to load map", "key", e.cfg.AppName, "err", err)
		return errors.Wrap(err, "loading map")
	}

	return e.LoadJSON(data)
}

// LoadJSON replaces the map with the given document & clears history.
func (e *Editor) LoadJSON(data []byte) error {
	g, err := encoding.Unmarshal(data)
	if err != nil {
		return err
	}

	kind := e.mode.kind
	e.exit()
	e.graph = g
	e.history = history.New(g, e.cfg.HistoryLimit)
	e.enter(kind)

	e.log.Info("map loaded",
		"intersections", g.NumIntersections(),
		"streets", g.NumStreets(),
		"districts", g.NumDistricts(),
	)
	return nil
}

// Sync sends a snapshot of the map to the Syncer.
func (e *Editor) Sync() error {
	if e.syncer == nil {
		return ErrNoSyncer
	}
	data, err := e.JSON()
	if err != nil {
		return err
	}
	return e.syncer.Send(data)
}

// Close releases the editor collaborators
func (e *Editor) Close() error {
	e.exit()
	if e.syncer != nil {
		return e.syncer.Close()
	}
	return nil
}

// actionKind is the metrics label of an action
func actionKind(a Action) string {
	switch a.(type) {
	case *CreateIntersection:
		return "create_intersection"
	case *CreateStreet:
		return "create_street"
	case *DeleteStreet:
		return "delete_street"
	case *MoveIntersections:
		return "move_intersections"
	case *CreateDistrict:
		return "create_district"
	case *DeleteDistrict:
		return "delete_district"
	case *Batch:
		return "batch"
	default:
		return "other"
	}
}

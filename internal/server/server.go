package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voidshard/streetgraph"
	"github.com/voidshard/streetgraph/internal/store"
)

// Server drives an Editor over HTTP.
// Requests are applied to the editor one at a time.
type Server struct {
	lock sync.Mutex
	ed   *streetgraph.Editor
	app  *fiber.App
	log  *slog.Logger
}

// pointer is the body of the mouse endpoints; positions are screen space
type pointer struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button string  `json:"button"`
}

// key is the body of POST /keys
type key struct {
	Chord string `json:"chord"`
}

// options is the body of POST /options
type options struct {
	MinimumHouseSide *float64 `json:"minimum_house_side"`
}

// New returns a server for the given editor with every route registered.
func New(ed *streetgraph.Editor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		ed:  ed,
		log: logger.With(slog.String("component", "server")),
		app: fiber.New(fiber.Config{
			AppName: ed.Config().AppName,
		}),
	}

	s.app.Use(recover.New())
	s.app.Use(s.logRequests)

	s.app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.app.Post("/mouse/down", s.mouseDown)
	s.app.Post("/mouse/move", s.mouseMove)
	s.app.Post("/mouse/up", s.mouseUp)
	s.app.Post("/keys", s.keyDown)
	s.app.Post("/mode/:name", s.switchMode)
	s.app.Post("/commands/:name", s.command)
	s.app.Post("/undo", s.undo)
	s.app.Post("/redo", s.redo)
	s.app.Post("/save", s.save)
	s.app.Post("/load", s.load)
	s.app.Post("/options", s.setOptions)

	s.app.Get("/state", s.state)
	s.app.Get("/map.json", s.mapJSON)
	s.app.Get("/map.png", s.mapPNG)

	return s
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown
func (s *Server) Listen(addr string) error {
	s.log.Info("listening", "addr", addr)
	return s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
}

// Shutdown stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) logRequests(c fiber.Ctx) error {
	err := c.Next()
	s.log.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
	)
	return err
}

// withEditor runs fn holding the editor lock
func (s *Server) withEditor(fn func(ed *streetgraph.Editor) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return fn(s.ed)
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) decodePointer(c fiber.Ctx) (pointer, streetgraph.MouseButton, error) {
	var p pointer
	if len(c.Body()) == 0 {
		return p, streetgraph.ButtonLeft, errors.New("body required")
	}
	err := json.Unmarshal(c.Body(), &p)
	if err != nil {
		return p, streetgraph.ButtonLeft, errors.Wrap(err, "invalid JSON payload")
	}
	btn, err := streetgraph.ParseButton(p.Button)
	return p, btn, err
}

func (s *Server) mouseDown(c fiber.Ctx) error {
	p, btn, err := s.decodePointer(c)
	if err != nil {
		return badRequest(c, err)
	}
	s.withEditor(func(ed *streetgraph.Editor) error {
		ed.MouseDown(r2.Point{X: p.X, Y: p.Y}, btn)
		return nil
	})
	return s.state(c)
}

func (s *Server) mouseMove(c fiber.Ctx) error {
	p, _, err := s.decodePointer(c)
	if err != nil {
		return badRequest(c, err)
	}
	s.withEditor(func(ed *streetgraph.Editor) error {
		ed.MouseMove(r2.Point{X: p.X, Y: p.Y})
		return nil
	})
	return s.state(c)
}

func (s *Server) mouseUp(c fiber.Ctx) error {
	p, btn, err := s.decodePointer(c)
	if err != nil {
		return badRequest(c, err)
	}
	s.withEditor(func(ed *streetgraph.Editor) error {
		ed.MouseUp(r2.Point{X: p.X, Y: p.Y}, btn)
		return nil
	})
	return s.state(c)
}

func (s *Server) keyDown(c fiber.Ctx) error {
	var k key
	err := json.Unmarshal(c.Body(), &k)
	if err != nil {
		return badRequest(c, errors.Wrap(err, "invalid JSON payload"))
	}
	chord, err := streetgraph.ParseChord(k.Chord)
	if err != nil {
		return badRequest(c, err)
	}

	var handled bool
	err = s.withEditor(func(ed *streetgraph.Editor) error {
		handled, err = ed.KeyDown(c.Context(), chord)
		return err
	})
	if err != nil {
		return s.commandError(c, err)
	}
	return c.JSON(fiber.Map{"chord": chord.String(), "handled": handled})
}

func (s *Server) switchMode(c fiber.Ctx) error {
	kind, err := streetgraph.ParseMode(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	s.withEditor(func(ed *streetgraph.Editor) error {
		ed.SwitchMode(kind)
		return nil
	})
	return s.state(c)
}

func (s *Server) command(c fiber.Ctx) error {
	cmd, err := streetgraph.ParseCommand(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	err = s.withEditor(func(ed *streetgraph.Editor) error {
		return ed.Execute(c.Context(), cmd)
	})
	if err != nil {
		return s.commandError(c, err)
	}
	return s.state(c)
}

func (s *Server) undo(c fiber.Ctx) error {
	var ok bool
	s.withEditor(func(ed *streetgraph.Editor) error {
		ok = ed.Undo()
		return nil
	})
	return c.JSON(fiber.Map{"undone": ok})
}

func (s *Server) redo(c fiber.Ctx) error {
	var ok bool
	s.withEditor(func(ed *streetgraph.Editor) error {
		ok = ed.Redo()
		return nil
	})
	return c.JSON(fiber.Map{"redone": ok})
}

func (s *Server) save(c fiber.Ctx) error {
	err := s.withEditor(func(ed *streetgraph.Editor) error {
		return ed.Save(c.Context())
	})
	if err != nil {
		return s.commandError(c, err)
	}
	return c.JSON(fiber.Map{"saved": true})
}

func (s *Server) load(c fiber.Ctx) error {
	err := s.withEditor(func(ed *streetgraph.Editor) error {
		if len(c.Body()) > 0 {
			return ed.LoadJSON(c.Body())
		}
		return ed.Load(c.Context())
	})
	if err != nil {
		return s.commandError(c, err)
	}
	return s.state(c)
}

func (s *Server) setOptions(c fiber.Ctx) error {
	var o options
	err := json.Unmarshal(c.Body(), &o)
	if err != nil {
		return badRequest(c, errors.Wrap(err, "invalid JSON payload"))
	}
	if o.MinimumHouseSide == nil {
		return badRequest(c, errors.New("minimum_house_side required"))
	}

	var side float64
	s.withEditor(func(ed *streetgraph.Editor) error {
		side = ed.SetMinimumHouseSide(*o.MinimumHouseSide)
		return nil
	})
	return c.JSON(fiber.Map{"minimum_house_side": side})
}

// commandError maps editor errors onto status codes
func (s *Server) commandError(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, streetgraph.ErrNoStorage), errors.Is(err, streetgraph.ErrNoSyncer):
		status = fiber.StatusServiceUnavailable
	}
	if status == fiber.StatusInternalServerError {
		s.log.Error("request failed", "path", c.Path(), "err", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) state(c fiber.Ctx) error {
	var out fiber.Map
	s.withEditor(func(ed *streetgraph.Editor) error {
		undo, redo, labels := ed.History()
		g := ed.Graph()
		out = fiber.Map{
			"mode":          ed.Mode().String(),
			"intersections": g.NumIntersections(),
			"streets":       g.NumStreets(),
			"districts":     g.NumDistricts(),
			"undo":          undo,
			"redo":          redo,
			"history":       labels,
			"layers":        ed.Layers().String(),
		}
		return nil
	})
	return c.JSON(out)
}

func (s *Server) mapJSON(c fiber.Ctx) error {
	var data []byte
	err := s.withEditor(func(ed *streetgraph.Editor) error {
		var err error
		data, err = ed.JSON()
		return err
	})
	if err != nil {
		return s.commandError(c, err)
	}
	c.Set("Content-Type", "application/json")
	return c.Send(data)
}

func (s *Server) mapPNG(c fiber.Ctx) error {
	buf := &bytes.Buffer{}
	err := s.withEditor(func(ed *streetgraph.Editor) error {
		layers := ed.Layers()
		if q := c.Query("layers"); q != "" {
			mask, err := strconv.ParseUint(q, 10, 8)
			if err != nil {
				return errors.Wrapf(err, "layers %q", q)
			}
			layers = streetgraph.LayersFromMask(uint8(mask))
		}
		return ed.EncodePNG(buf, layers)
	})
	if err != nil {
		return badRequest(c, err)
	}
	c.Set("Content-Type", "image/png")
	return c.Send(buf.Bytes())
}

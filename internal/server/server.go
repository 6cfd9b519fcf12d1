// Package server provides the HTTP API for evaluating expressions.
package server

import (
	"errors"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/groupcache/lru"

	"github.com/zephyrtronium/matheval"
)

// Server evaluates expressions posted to it. Parsed expressions are cached
// by source text, so repeated requests for the same expression with
// different variables skip parsing.
type Server struct {
	app *fiber.App

	// mu guards cache. lru.Cache is not safe for concurrent use, even for
	// Get, because Get reorders entries.
	mu    sync.Mutex
	cache *lru.Cache
}

// cacheKey identifies a cached expression. Folded and unfolded forms of
// the same source are cached separately.
type cacheKey struct {
	src  string
	fold bool
}

// New creates a server caching up to cacheSize parsed expressions. If
// cacheSize is not positive, nothing is cached.
func New(cacheSize int) *Server {
	srv := &Server{}
	if cacheSize > 0 {
		srv.cache = lru.New(cacheSize)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	app.Post("/v1/eval", srv.eval)
	app.Post("/v1/parse", srv.parse)
	app.Get("/v1/funcs", srv.funcs)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

// expr returns the parsed, and optionally folded, form of src, using the
// cache when possible. Errors are not cached.
func (s *Server) expr(src string, fold bool) (*matheval.Expr, error) {
	key := cacheKey{src: src, fold: fold}
	if s.cache != nil {
		s.mu.Lock()
		v, ok := s.cache.Get(key)
		s.mu.Unlock()
		if ok {
			return v.(*matheval.Expr), nil
		}
	}

	var (
		a   *matheval.Expr
		err error
	)
	if fold {
		a, err = s.expr(src, false)
		if err != nil {
			return nil, err
		}
		a, err = a.Fold()
	} else {
		a, err = matheval.ParseString(src)
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.mu.Lock()
		s.cache.Add(key, a)
		s.mu.Unlock()
	}
	return a, nil
}

// --- Handlers ---

type evalRequest struct {
	Expr string             `json:"expr"`
	Vars map[string]float64 `json:"vars"`
	Fold bool               `json:"fold"`
}

func (s *Server) eval(c *fiber.Ctx) error {
	var req evalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	a, err := s.expr(req.Expr, req.Fold)
	if err != nil {
		return exprError(c, err)
	}

	// Without vars, evaluation has no symbol table at all, so a variable
	// is a MissingSymbolTable error rather than UnknownVariable.
	var l matheval.Lookup
	if req.Vars != nil {
		l = matheval.Map(req.Vars)
	}
	r, err := a.Eval(l)
	if err != nil {
		return exprError(c, err)
	}

	return c.JSON(fiber.Map{
		"result": jsonFloat(r),
		"text":   strconv.FormatFloat(r, 'g', -1, 64),
	})
}

type parseRequest struct {
	Expr string `json:"expr"`
	Fold bool   `json:"fold"`
}

func (s *Server) parse(c *fiber.Ctx) error {
	var req parseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}

	a, err := s.expr(req.Expr, req.Fold)
	if err != nil {
		return exprError(c, err)
	}

	vars := a.Vars()
	if vars == nil {
		vars = []string{}
	}
	return c.JSON(fiber.Map{
		"tree": a.String(),
		"vars": vars,
	})
}

func (s *Server) funcs(c *fiber.Ctx) error {
	fns := matheval.Funcs()
	items := make([]fiber.Map, len(fns))
	for i, fn := range fns {
		items[i] = fiber.Map{
			"name":  fn.Name,
			"arity": fn.Arity,
		}
	}

	cs := matheval.Constants()
	consts := make([]fiber.Map, len(cs))
	for i, k := range cs {
		consts[i] = fiber.Map{
			"name":  k.Name,
			"value": k.Value,
		}
	}

	return c.JSON(fiber.Map{
		"funcs":     items,
		"constants": consts,
	})
}

// --- Helpers ---

// jsonFloat returns x as a JSON-encodable value. JSON has no NaN or
// infinities, so those become null.
func jsonFloat(x float64) interface{} {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return x
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(400).JSON(fiber.Map{
		"error": fiber.Map{
			"kind":    "InvalidRequest",
			"message": "invalid request body: " + err.Error(),
		},
	})
}

// exprError reports an error from parsing, folding, or evaluating an
// expression. Parse failures are 400; every other kind is 422.
func exprError(c *fiber.Ctx, err error) error {
	kind := matheval.KindOf(err)
	status := 422
	if kind == matheval.ParseFailure {
		status = 400
	}
	e := fiber.Map{
		"kind":    kind.String(),
		"message": err.Error(),
	}
	var ierr matheval.InputError
	if errors.As(err, &ierr) {
		e["pos"] = ierr.Pos()
	}
	return c.Status(status).JSON(fiber.Map{"error": e})
}

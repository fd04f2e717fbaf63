// Package itsitest provides an in-memory fake of the Splunk ITSI REST API
// for tests. It implements the glass table CRUD endpoints (including
// is_partial_data updates and the filter/fields/count/offset/sort query
// options) and the notable event comment endpoint, backed by a fiber app
// that clients reach through an in-process http.RoundTripper, so no sockets
// are opened.
package itsitest

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"itsictl/core/itsi"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Server is an in-memory fake ITSI instance.
type Server struct {
	app *fiber.App

	mu       sync.Mutex
	tables   map[string]map[string]any
	order    []string // creation order of glass table keys
	comments []map[string]any
}

// Token is the bearer token the fake server accepts.
const Token = "itsitest-token"

// NewServer creates a fake ITSI server with an empty object store.
func NewServer() *Server {
	s := &Server{
		tables: map[string]map[string]any{},
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(s.requireAuth)

	gt := "/" + itsi.GlassTablePath
	app.Get(gt, s.listGlassTables)
	app.Post(gt, s.createGlassTable)
	app.Get(gt+"/:key", s.getGlassTable)
	app.Post(gt+"/:key", s.updateGlassTable)
	app.Delete(gt+"/:key", s.deleteGlassTable)

	app.Post("/"+itsi.CommentPath, s.addComment)

	s.app = app
	return s
}

// ClientConfig returns a client configuration pointed at the fake server.
// Combine with Transport to build a working itsi.Client.
func (s *Server) ClientConfig() itsi.Config {
	return itsi.Config{
		BaseURL:        "https://itsi.test:8089",
		Token:          Token,
		VerifySSL:      false,
		TimeoutSeconds: 5,
	}
}

// Transport returns a RoundTripper that dispatches requests to the fake
// server in-process.
func (s *Server) Transport() http.RoundTripper {
	return roundTripper{app: s.app}
}

type roundTripper struct {
	app *fiber.App
}

func (rt roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt.app.Test(req, -1)
}

// AddGlassTable seeds a glass table and returns its assigned _key.
func (s *Server) AddGlassTable(fields map[string]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := uuid.NewString()
	obj := map[string]any{"_key": key}
	for k, v := range fields {
		obj[k] = v
	}
	s.tables[key] = obj
	s.order = append(s.order, key)
	return key
}

// GlassTable returns the stored object for key, or nil if absent.
func (s *Server) GlassTable(key string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables[key]
}

// GlassTableCount returns the number of stored glass tables.
func (s *Server) GlassTableCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tables)
}

// Comments returns all comments posted so far, in order.
func (s *Server) Comments() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]any(nil), s.comments...)
}

func (s *Server) requireAuth(c *fiber.Ctx) error {
	auth := c.Get("Authorization")
	if auth != "Bearer "+Token {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "call not properly authenticated"})
	}
	return c.Next()
}

func (s *Server) listGlassTables(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]map[string]any, 0, len(s.order))
	for _, key := range s.order {
		if obj, ok := s.tables[key]; ok {
			results = append(results, obj)
		}
	}

	if filter := c.Query("filter"); filter != "" {
		var match map[string]any
		if err := json.Unmarshal([]byte(filter), &match); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid filter"})
		}
		results = filterObjects(results, match)
	}

	if sortKey := c.Query("sort_key"); sortKey != "" {
		desc := c.Query("sort_dir") == "desc"
		sortObjects(results, sortKey, desc)
	}

	if offset := c.QueryInt("offset"); offset > 0 {
		if offset >= len(results) {
			results = nil
		} else {
			results = results[offset:]
		}
	}
	if count := c.QueryInt("count"); count > 0 && count < len(results) {
		results = results[:count]
	}

	if fields := c.Query("fields"); fields != "" {
		results = projectObjects(results, strings.Split(fields, ","))
	}

	if results == nil {
		results = []map[string]any{}
	}
	return c.JSON(results)
}

func (s *Server) getGlassTable(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.tables[c.Params("key")]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "object not found"})
	}
	return c.JSON(obj)
}

func (s *Server) createGlassTable(c *fiber.Ctx) error {
	var payload map[string]any
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON payload"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := uuid.NewString()
	obj := map[string]any{"_key": key}
	for k, v := range payload {
		obj[k] = v
	}
	s.tables[key] = obj
	s.order = append(s.order, key)

	return c.JSON(obj)
}

func (s *Server) updateGlassTable(c *fiber.Ctx) error {
	var payload map[string]any
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON payload"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := c.Params("key")
	obj, ok := s.tables[key]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "object not found"})
	}

	if c.Query("is_partial_data") == "1" {
		// Partial update: changed top-level fields replace their current
		// values wholesale, everything else is preserved.
		for k, v := range payload {
			obj[k] = v
		}
	} else {
		replaced := map[string]any{"_key": key}
		for k, v := range payload {
			replaced[k] = v
		}
		s.tables[key] = replaced
		obj = replaced
	}

	return c.JSON(obj)
}

func (s *Server) deleteGlassTable(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := c.Params("key")
	if _, ok := s.tables[key]; !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "object not found"})
	}
	delete(s.tables, key)

	return c.JSON(fiber.Map{})
}

func (s *Server) addComment(c *fiber.Ctx) error {
	var payload map[string]any
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON payload"})
	}

	comment, _ := payload["comment"].(string)
	eventID, _ := payload["event_id"].(string)
	if comment == "" || eventID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "comment and event_id are required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := map[string]any{"_key": uuid.NewString()}
	for k, v := range payload {
		stored[k] = v
	}
	s.comments = append(s.comments, stored)

	return c.JSON(stored)
}

// filterObjects keeps objects whose top-level fields match every filter entry.
func filterObjects(objects []map[string]any, match map[string]any) []map[string]any {
	var kept []map[string]any
	for _, obj := range objects {
		matches := true
		for k, want := range match {
			if !equalJSON(obj[k], want) {
				matches = false
				break
			}
		}
		if matches {
			kept = append(kept, obj)
		}
	}
	return kept
}

// projectObjects restricts each object to the requested field names.
func projectObjects(objects []map[string]any, fields []string) []map[string]any {
	projected := make([]map[string]any, 0, len(objects))
	for _, obj := range objects {
		p := map[string]any{}
		for _, f := range fields {
			f = strings.TrimSpace(f)
			if v, ok := obj[f]; ok {
				p[f] = v
			}
		}
		projected = append(projected, p)
	}
	return projected
}

// sortObjects orders objects by the given field, numbers before strings.
func sortObjects(objects []map[string]any, key string, desc bool) {
	sort.SliceStable(objects, func(i, j int) bool {
		less := lessValues(objects[i][key], objects[j][key])
		if desc {
			return !less && !equalJSON(objects[i][key], objects[j][key])
		}
		return less
	})
}

func lessValues(a, b any) bool {
	af, aNum := a.(float64)
	bf, bNum := b.(float64)
	if aNum && bNum {
		return af < bf
	}
	return toString(a) < toString(b)
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case nil:
		return ""
	default:
		encoded, _ := json.Marshal(s)
		return string(encoded)
	}
}

func equalJSON(a, b any) bool {
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}

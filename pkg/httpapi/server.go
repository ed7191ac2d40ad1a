// Package httpapi serves the portal REST API.
//
// Every response uses a JSON envelope: {"success": true, ...} on the happy
// path, {"success": false, "error": "..."} on failure. The AI-backed routes
// (summaries, dialogue, evaluation, semantic search) answer 503 when the
// corresponding service was not configured; the character, location, and
// note routes work without any AI provider.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/schwiftylabs/portal/pkg/eval"
	"github.com/schwiftylabs/portal/pkg/imagegen"
	"github.com/schwiftylabs/portal/pkg/notes"
	"github.com/schwiftylabs/portal/pkg/rickmorty"
	"github.com/schwiftylabs/portal/pkg/scribe"
	"github.com/schwiftylabs/portal/pkg/search"
)

// Config configures a new [Server].
type Config struct {
	// Client is the Rick and Morty API client. Required.
	Client *rickmorty.Client

	// Notes is the note store. Required.
	Notes *notes.Store

	// Search is the semantic search service. Optional: nil disables the
	// /api/search routes (503).
	Search *search.Service

	// Scribe generates summaries, dialogue, and analysis. Optional: nil
	// disables the generative /api/ai routes (503).
	Scribe *scribe.Scribe

	// Eval grades generated text. Optional: nil disables the eval routes
	// (503).
	Eval *eval.Evaluator

	// Images builds image URLs. Optional: defaults to imagegen.New().
	Images *imagegen.Generator

	// AllowOrigin is the CORS origin. Optional: defaults to "*".
	AllowOrigin string

	// Logger is used for access logs and failures. Optional: defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Server is the portal HTTP API. It implements http.Handler.
type Server struct {
	client  *rickmorty.Client
	notes   *notes.Store
	search  *search.Service
	scribe  *scribe.Scribe
	eval    *eval.Evaluator
	images  *imagegen.Generator
	log     *slog.Logger
	handler http.Handler
}

var _ http.Handler = (*Server)(nil)

// New creates a Server.
func New(cfg Config) (*Server, error) {
	if cfg.Client == nil {
		return nil, errConfig("Client")
	}
	if cfg.Notes == nil {
		return nil, errConfig("Notes")
	}

	s := &Server{
		client: cfg.Client,
		notes:  cfg.Notes,
		search: cfg.Search,
		scribe: cfg.Scribe,
		eval:   cfg.Eval,
		images: cfg.Images,
		log:    cfg.Logger,
	}
	if s.images == nil {
		s.images = imagegen.New()
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	origin := cfg.AllowOrigin
	if origin == "" {
		origin = "*"
	}
	s.handler = chain(s.routes(),
		requestID(),
		accessLog(s.log),
		cors(origin),
		recoverPanics(s.log),
	)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/locations", s.handleLocations)
	mux.HandleFunc("GET /api/locations/{id}", s.handleLocation)

	mux.HandleFunc("GET /api/characters/search", s.handleCharacterSearch)
	mux.HandleFunc("GET /api/characters/{id}", s.handleCharacter)

	mux.HandleFunc("POST /api/notes", s.handleNoteCreate)
	mux.HandleFunc("GET /api/notes/{characterID}", s.handleNotesList)
	mux.HandleFunc("PUT /api/notes/{noteID}", s.handleNoteUpdate)
	mux.HandleFunc("DELETE /api/notes/{noteID}", s.handleNoteDelete)

	mux.HandleFunc("GET /api/ai/location-summary/{id}", s.handleLocationSummary)
	mux.HandleFunc("GET /api/ai/location-image/{id}", s.handleLocationImage)
	mux.HandleFunc("POST /api/ai/character-dialogue", s.handleCharacterDialogue)
	mux.HandleFunc("GET /api/ai/character-analysis/{id}", s.handleCharacterAnalysis)
	mux.HandleFunc("POST /api/ai/eval/factual-consistency", s.handleEvalFactual)
	mux.HandleFunc("POST /api/ai/eval/creativity", s.handleEvalCreativity)

	mux.HandleFunc("POST /api/search/index-characters", s.handleIndexCharacters)
	mux.HandleFunc("POST /api/search/semantic", s.handleSemanticSearch)

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

func (s *Server) aiAvailable() bool {
	return s.scribe != nil && s.eval != nil && s.search != nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"status":       "healthy",
		"ai_available": s.aiAvailable(),
	})
}

// handleIndex serves a small API directory at the root.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"service": "portal",
		"endpoints": map[string]string{
			"health":             "GET /api/health",
			"locations":          "GET /api/locations?include_residents=true",
			"location":           "GET /api/locations/{id}",
			"character":          "GET /api/characters/{id}",
			"character_search":   "GET /api/characters/search?name=",
			"notes":              "POST /api/notes, GET|PUT|DELETE /api/notes/{id}",
			"location_summary":   "GET /api/ai/location-summary/{id}",
			"location_image":     "GET /api/ai/location-image/{id}",
			"character_dialogue": "POST /api/ai/character-dialogue",
			"character_analysis": "GET /api/ai/character-analysis/{id}",
			"eval_factual":       "POST /api/ai/eval/factual-consistency",
			"eval_creativity":    "POST /api/ai/eval/creativity",
			"search_index":       "POST /api/search/index-characters",
			"search_semantic":    "POST /api/search/semantic",
		},
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"success": false,
		"error":   "Resource not found",
	})
}

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/schwiftylabs/portal/pkg/imagegen"
	"github.com/schwiftylabs/portal/pkg/search"
)

func (s *Server) handleLocationSummary(w http.ResponseWriter, r *http.Request) {
	if s.scribe == nil {
		s.failAIDisabled(w)
		return
	}
	id, err := pathInt(r, "id", "location ID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx := r.Context()

	loc, err := s.client.Locations.Get(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary, err := s.scribe.LocationSummary(ctx, loc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"location": loc,
			"summary":  summary,
		},
	})
}

// handleLocationImage narrates a location and turns the narration into a
// rendered image URL. When the model cannot produce a usable image prompt the
// handler falls back to a static one instead of failing the request.
func (s *Server) handleLocationImage(w http.ResponseWriter, r *http.Request) {
	if s.scribe == nil {
		s.failAIDisabled(w)
		return
	}
	id, err := pathInt(r, "id", "location ID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx := r.Context()

	loc, err := s.client.Locations.Get(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary, err := s.scribe.LocationSummary(ctx, loc)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	prompt, err := s.scribe.LocationImagePrompt(ctx, loc, summary)
	if err != nil {
		s.log.Warn("image prompt generation failed, using static prompt",
			"location_id", id, "error", err)
		prompt = imagegen.LocationPrompt(loc)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"location":     loc,
			"summary":      summary,
			"image_prompt": prompt,
			"image_url":    s.images.URL(prompt, imagegen.Options{}),
		},
	})
}

func (s *Server) handleCharacterDialogue(w http.ResponseWriter, r *http.Request) {
	if s.scribe == nil {
		s.failAIDisabled(w)
		return
	}
	var req struct {
		Character1ID int `json:"character1_id"`
		Character2ID int `json:"character2_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Character1ID < 1 || req.Character2ID < 1 {
		s.fail(w, r, &validationError{msg: "Missing required fields: character1_id, character2_id"})
		return
	}
	ctx := r.Context()

	c1, err := s.client.Characters.Get(ctx, req.Character1ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c2, err := s.client.Characters.Get(ctx, req.Character2ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	dialogue, err := s.scribe.CharacterDialogue(ctx, c1, c2)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	scenePrompt, err := s.scribe.DialogueImagePrompt(ctx, c1, c2, dialogue)
	if err != nil {
		s.log.Warn("image prompt generation failed, using static prompt",
			"character1_id", c1.ID, "character2_id", c2.ID, "error", err)
		scenePrompt = imagegen.DialoguePrompt(c1, c2)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"character1":       c1,
			"character2":       c2,
			"dialogue":         dialogue,
			"character1_image": c1.Image,
			"character2_image": c2.Image,
			"dialogue_image":   s.images.URL(scenePrompt, imagegen.Options{}),
		},
	})
}

func (s *Server) handleCharacterAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.scribe == nil {
		s.failAIDisabled(w)
		return
	}
	id, err := pathInt(r, "id", "character ID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ctx := r.Context()

	char, err := s.client.Characters.Get(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	analysis, err := s.scribe.CharacterAnalysis(ctx, char)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"character": char,
			"analysis":  analysis,
		},
	})
}

func (s *Server) handleEvalFactual(w http.ResponseWriter, r *http.Request) {
	if s.eval == nil {
		s.failAIDisabled(w)
		return
	}
	var req struct {
		GeneratedText string         `json:"generated_text"`
		SourceData    map[string]any `json:"source_data"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.GeneratedText) == "" || req.SourceData == nil {
		s.fail(w, r, &validationError{msg: "Missing required fields: generated_text, source_data"})
		return
	}
	result, err := s.eval.FactualConsistency(r.Context(), req.GeneratedText, req.SourceData)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    result,
	})
}

func (s *Server) handleEvalCreativity(w http.ResponseWriter, r *http.Request) {
	if s.eval == nil {
		s.failAIDisabled(w)
		return
	}
	var req struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.GeneratedText) == "" {
		s.fail(w, r, &validationError{msg: "Missing required field: generated_text"})
		return
	}
	result, err := s.eval.Creativity(r.Context(), req.GeneratedText)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    result,
	})
}

// handleIndexCharacters accepts an optional body. No body, or a body without
// character_ids, indexes the default range.
func (s *Server) handleIndexCharacters(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		s.failAIDisabled(w)
		return
	}
	var req struct {
		CharacterIDs []int `json:"character_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, r, &validationError{msg: "Invalid JSON body"})
		return
	}

	res, err := s.search.IndexCharacters(r.Context(), req.CharacterIDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	errs := res.Errors
	if errs == nil {
		errs = []search.IndexError{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"indexed_count": res.IndexedCount,
		"errors":        errs,
	})
}

func (s *Server) handleSemanticSearch(w http.ResponseWriter, r *http.Request) {
	if s.search == nil {
		s.failAIDisabled(w)
		return
	}
	var req struct {
		Query string `json:"query"`
		TopK  int    `json:"top_k"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.fail(w, r, &validationError{msg: "Missing required field: query"})
		return
	}
	results, err := s.search.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if results == nil {
		results = []search.Result{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"query":   req.Query,
		"count":   len(results),
		"data":    results,
	})
}

package httpapi

import (
	"net/http"
	"strings"

	"github.com/schwiftylabs/portal/pkg/notes"
	"github.com/schwiftylabs/portal/pkg/rickmorty"
)

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		locs []rickmorty.Location
		err  error
	)
	if strings.EqualFold(r.URL.Query().Get("include_residents"), "true") {
		locs, err = s.client.Locations.AllWithResidents(ctx)
	} else {
		locs, err = s.client.Locations.All(ctx)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(locs),
		"data":    locs,
	})
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "id", "location ID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	loc, err := s.client.Locations.GetWithResidents(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    loc,
	})
}

// handleCharacter returns a character together with the notes kept on it.
func (s *Server) handleCharacter(w http.ResponseWriter, r *http.Request) {
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
	list, err := s.notes.ListByCharacter(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []notes.Note{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"character": char,
			"notes":     list,
		},
	})
}

func (s *Server) handleCharacterSearch(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		s.fail(w, r, &validationError{msg: "Name parameter is required"})
		return
	}
	chars, err := s.client.Characters.Search(r.Context(), name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(chars),
		"data":    chars,
	})
}

type noteCreateRequest struct {
	CharacterID   int    `json:"character_id"`
	CharacterName string `json:"character_name"`
	Note          string `json:"note"`
}

func (s *Server) handleNoteCreate(w http.ResponseWriter, r *http.Request) {
	var req noteCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.CharacterID < 1 || strings.TrimSpace(req.CharacterName) == "" || strings.TrimSpace(req.Note) == "" {
		s.fail(w, r, &validationError{msg: "Missing required fields: character_id, character_name, note"})
		return
	}
	n, err := s.notes.Create(r.Context(), req.CharacterID, req.CharacterName, req.Note)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"note_id": n.ID,
	})
}

func (s *Server) handleNotesList(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt(r, "characterID", "character ID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.notes.ListByCharacter(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if list == nil {
		list = []notes.Note{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(list),
		"data":    list,
	})
}

func (s *Server) handleNoteUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.Note) == "" {
		s.fail(w, r, &validationError{msg: "Missing required field: note"})
		return
	}
	n, err := s.notes.Update(r.Context(), r.PathValue("noteID"), req.Note)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    n,
	})
}

func (s *Server) handleNoteDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.notes.Delete(r.Context(), r.PathValue("noteID")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
	})
}

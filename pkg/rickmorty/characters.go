package rickmorty

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// CharacterService provides character lookup operations.
type CharacterService struct {
	client *Client
}

func newCharacterService(c *Client) *CharacterService {
	return &CharacterService{client: c}
}

// Get fetches a single character by id.
func (s *CharacterService) Get(ctx context.Context, id int) (*Character, error) {
	var char Character
	if err := s.client.http.get(ctx, "/character/"+strconv.Itoa(id), nil, true, &char); err != nil {
		return nil, err
	}
	return &char, nil
}

// GetBatch fetches multiple characters by id in as few requests as possible.
// Ids are grouped into comma-joined multi-id requests of at most 100.
// The result order follows the API's, which follows the requested ids.
func (s *CharacterService) GetBatch(ctx context.Context, ids []int) ([]Character, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var out []Character
	for start := 0; start < len(ids); start += maxBatchIDs {
		end := min(start+maxBatchIDs, len(ids))
		chunk := ids[start:end]

		strs := make([]string, len(chunk))
		for i, id := range chunk {
			strs[i] = strconv.Itoa(id)
		}

		var raw json.RawMessage
		if err := s.client.http.get(ctx, "/character/"+strings.Join(strs, ","), nil, true, &raw); err != nil {
			return nil, err
		}
		batch, err := decodeCharacterBatch(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

// decodeCharacterBatch handles the multi-id endpoint's response shape: an
// array for several ids, a bare object when only one id was requested.
func decodeCharacterBatch(raw json.RawMessage) ([]Character, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var one Character
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return nil, fmt.Errorf("rickmorty: decode character batch: %w", err)
		}
		return []Character{one}, nil
	}
	var many []Character
	if err := json.Unmarshal(trimmed, &many); err != nil {
		return nil, fmt.Errorf("rickmorty: decode character batch: %w", err)
	}
	return many, nil
}

// Search returns the characters whose name matches the filter (first page).
// A name with no matches returns an empty slice, not an error. Search
// results always come from upstream, never from the cache.
func (s *CharacterService) Search(ctx context.Context, name string) ([]Character, error) {
	q := url.Values{}
	q.Set("name", name)

	var page characterPage
	if err := s.client.http.get(ctx, "/character/", q, false, &page); err != nil {
		if e, ok := AsError(err); ok && e.IsNotFound() {
			return []Character{}, nil
		}
		return nil, err
	}
	return page.Results, nil
}

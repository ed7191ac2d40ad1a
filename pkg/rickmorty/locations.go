package rickmorty

import (
	"context"
	"net/url"
	"sort"
	"strconv"
)

// LocationService provides location lookup operations.
type LocationService struct {
	client *Client
}

func newLocationService(c *Client) *LocationService {
	return &LocationService{client: c}
}

// Get fetches a single location by id.
func (s *LocationService) Get(ctx context.Context, id int) (*Location, error) {
	var loc Location
	if err := s.client.http.get(ctx, "/location/"+strconv.Itoa(id), nil, true, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

// All fetches every location, walking the paginated listing to the end.
func (s *LocationService) All(ctx context.Context) ([]Location, error) {
	var out []Location
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))

		var p locationPage
		if err := s.client.http.get(ctx, "/location/", q, true, &p); err != nil {
			return nil, err
		}
		out = append(out, p.Results...)
		if p.Info.Next == "" {
			break
		}
	}
	return out, nil
}

// GetWithResidents fetches a location and resolves its resident URLs into
// full character records in ResidentDetails. Resident URLs that do not
// carry a parseable id are skipped.
func (s *LocationService) GetWithResidents(ctx context.Context, id int) (*Location, error) {
	loc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := residentIDs(loc.Residents)
	if len(ids) == 0 {
		return loc, nil
	}
	chars, err := s.client.Characters.GetBatch(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]Character, len(chars))
	for _, c := range chars {
		byID[c.ID] = c
	}
	attachResidents(loc, byID)
	return loc, nil
}

// AllWithResidents fetches every location and resolves all resident URLs
// in bulk. Resident ids are deduplicated across locations and fetched in
// batches; a batch that fails is logged and skipped, so one bad fetch
// degrades the result instead of aborting it.
func (s *LocationService) AllWithResidents(ctx context.Context) ([]Location, error) {
	locs, err := s.All(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	for i := range locs {
		for _, id := range residentIDs(locs[i].Residents) {
			seen[id] = true
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	byID := make(map[int]Character, len(ids))
	for start := 0; start < len(ids); start += maxBatchIDs {
		end := min(start+maxBatchIDs, len(ids))
		chunk := ids[start:end]

		chars, err := s.client.Characters.GetBatch(ctx, chunk)
		if err != nil {
			s.client.config.log.Warn("resident batch fetch failed",
				"from", chunk[0], "to", chunk[len(chunk)-1], "error", err)
			continue
		}
		for _, c := range chars {
			byID[c.ID] = c
		}
	}

	for i := range locs {
		attachResidents(&locs[i], byID)
	}
	return locs, nil
}

// residentIDs extracts character ids from resident URLs, dropping any URL
// without a parseable id.
func residentIDs(urls []string) []int {
	ids := make([]int, 0, len(urls))
	for _, u := range urls {
		id, err := IDFromURL(u)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// attachResidents fills loc.ResidentDetails from byID, preserving the
// order of loc.Residents. Residents missing from byID are left out.
func attachResidents(loc *Location, byID map[int]Character) {
	if len(loc.Residents) == 0 {
		return
	}
	details := make([]Character, 0, len(loc.Residents))
	for _, u := range loc.Residents {
		id, err := IDFromURL(u)
		if err != nil {
			continue
		}
		if c, ok := byID[id]; ok {
			details = append(details, c)
		}
	}
	loc.ResidentDetails = details
}

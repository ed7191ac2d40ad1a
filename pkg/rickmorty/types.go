package rickmorty

import (
	"fmt"
	"strconv"
	"strings"
)

// Ref is a named reference to another API resource.
type Ref struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Character is a Rick and Morty character as returned by the API.
type Character struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"` // Alive, Dead, unknown
	Species  string   `json:"species"`
	Type     string   `json:"type"` // subspecies, often empty
	Gender   string   `json:"gender"`
	Origin   Ref      `json:"origin"`
	Location Ref      `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
	URL      string   `json:"url"`
	Created  string   `json:"created"`
}

// Description builds the character's one-line textual profile. This is the
// text that gets embedded for semantic search, so its shape is stable.
func (c *Character) Description() string {
	parts := []string{
		"Name: " + c.Name,
		"Status: " + c.Status,
		"Species: " + c.Species,
	}
	if c.Type != "" {
		parts = append(parts, "Type: "+c.Type)
	}
	parts = append(parts,
		"Gender: "+c.Gender,
		"Origin: "+c.Origin.Name,
		"Current Location: "+c.Location.Name,
	)
	return strings.Join(parts, ". ") + "."
}

// Location is a Rick and Morty location as returned by the API.
type Location struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Dimension string   `json:"dimension"`
	Residents []string `json:"residents"` // character URLs
	URL       string   `json:"url"`
	Created   string   `json:"created"`

	// ResidentDetails holds the resolved resident characters. Populated by
	// GetWithResidents/AllWithResidents, not by the upstream API.
	ResidentDetails []Character `json:"resident_details,omitempty"`
}

// Info is the pagination envelope of list endpoints.
type Info struct {
	Count int    `json:"count"`
	Pages int    `json:"pages"`
	Next  string `json:"next"`
	Prev  string `json:"prev"`
}

// characterPage is one page of a character list response.
type characterPage struct {
	Info    Info        `json:"info"`
	Results []Character `json:"results"`
}

// locationPage is one page of a location list response.
type locationPage struct {
	Info    Info       `json:"info"`
	Results []Location `json:"results"`
}

// IDFromURL extracts the numeric id from an API resource URL, e.g.
// ".../api/character/42" -> 42.
func IDFromURL(url string) (int, error) {
	trimmed := strings.TrimSuffix(url, "/")
	i := strings.LastIndexByte(trimmed, '/')
	if i < 0 || i == len(trimmed)-1 {
		return 0, fmt.Errorf("rickmorty: no id in url %q", url)
	}
	id, err := strconv.Atoi(trimmed[i+1:])
	if err != nil {
		return 0, fmt.Errorf("rickmorty: no id in url %q", url)
	}
	return id, nil
}

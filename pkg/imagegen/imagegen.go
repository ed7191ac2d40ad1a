// Package imagegen builds image URLs for the Pollinations generator
// (https://image.pollinations.ai). Pollinations renders images on GET, so
// "generating" an image is just constructing a URL; no API key, no
// client, no upload.
package imagegen

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/schwiftylabs/portal/pkg/rickmorty"
)

const (
	// DefaultBaseURL is the public Pollinations prompt endpoint.
	DefaultBaseURL = "https://image.pollinations.ai/prompt"

	DefaultWidth  = 1024
	DefaultHeight = 768

	// DefaultModel is the image model requested by default.
	DefaultModel = "flux"
)

// Options tune one image URL. Zero values fall back to the defaults;
// Seed 0 means unseeded (non-reproducible) output.
type Options struct {
	Width  int
	Height int
	Seed   int
	Model  string
}

// Generator builds image URLs against a Pollinations-compatible endpoint.
type Generator struct {
	// BaseURL is the prompt endpoint. Empty means [DefaultBaseURL].
	BaseURL string
}

// New returns a Generator against the public endpoint.
func New() *Generator {
	return &Generator{BaseURL: DefaultBaseURL}
}

// URL returns the image URL for a prompt. The prompt becomes a single
// escaped path segment; width, height, model, and an optional seed ride
// along as query parameters.
func (g *Generator) URL(prompt string, opts Options) string {
	base := g.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if opts.Width == 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultHeight
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	q := url.Values{}
	q.Set("width", strconv.Itoa(opts.Width))
	q.Set("height", strconv.Itoa(opts.Height))
	q.Set("model", opts.Model)
	if opts.Seed != 0 {
		q.Set("seed", strconv.Itoa(opts.Seed))
	}

	return base + "/" + url.PathEscape(prompt) + "?" + q.Encode()
}

// LocationPrompt is the static scene prompt for a location, used when no
// model-written prompt is available.
func LocationPrompt(loc *rickmorty.Location) string {
	name := loc.Name
	if name == "" {
		name = "Unknown Location"
	}
	typ := loc.Type
	if typ == "" {
		typ = "Unknown"
	}
	dim := loc.Dimension
	if dim == "" {
		dim = "Unknown"
	}
	return fmt.Sprintf("Rick and Morty style sci-fi illustration of %s, a %s in %s. "+
		"Vibrant colors, cartoon style, science fiction elements, "+
		"portal green accents, cosmic background, detailed environment. "+
		"High quality digital art, animated series aesthetic.", name, typ, dim)
}

// DialoguePrompt is the static scene prompt for two characters in
// conversation, used when no model-written prompt is available.
func DialoguePrompt(c1, c2 *rickmorty.Character) string {
	n1 := c1.Name
	if n1 == "" {
		n1 = "Character 1"
	}
	n2 := c2.Name
	if n2 == "" {
		n2 = "Character 2"
	}
	return fmt.Sprintf("Rick and Morty animated style scene showing %s and %s "+
		"having a conversation. Both characters clearly visible, "+
		"vibrant colors, cartoon aesthetic, science fiction background, "+
		"expressive faces, high quality digital art matching the show's style. "+
		"Wide shot, detailed characters, portal green and space blue color scheme.", n1, n2)
}

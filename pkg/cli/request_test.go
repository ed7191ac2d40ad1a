package cli

import (
	"strings"
	"testing"
)

func TestParseRequest(t *testing.T) {
	type req struct {
		Query string `json:"query" yaml:"query"`
		Count int    `json:"count" yaml:"count"`
	}

	tests := []struct {
		name     string
		filename string
		data     string
		want     req
		wantErr  string
	}{
		{
			name:     "yaml by extension",
			filename: "req.yaml",
			data:     "query: portal gun\ncount: 3\n",
			want:     req{Query: "portal gun", Count: 3},
		},
		{
			name:     "yml by extension",
			filename: "req.yml",
			data:     "query: scientist\n",
			want:     req{Query: "scientist"},
		},
		{
			name:     "json by extension",
			filename: "req.json",
			data:     `{"query": "rick", "count": 5}`,
			want:     req{Query: "rick", Count: 5},
		},
		{
			name:     "json content with yaml extension fails",
			filename: "req.yaml",
			data:     "{query: [unterminated",
			wantErr:  "failed to parse YAML",
		},
		{
			name:     "unknown extension tries yaml",
			filename: "req.txt",
			data:     "query: morty\n",
			want:     req{Query: "morty"},
		},
		{
			name:     "unknown extension accepts json content",
			filename: "req",
			data:     `{"query": "summer"}`,
			want:     req{Query: "summer"},
		},
		{
			name:     "unparseable either way",
			filename: "req.bin",
			data:     "\x00\x01: : :",
			wantErr:  "tried YAML and JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got req
			err := ParseRequest([]byte(tt.data), tt.filename, &got)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want mention of %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRequest: %v", err)
			}
			if got != tt.want {
				t.Errorf("parsed %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadRequestMissingFile(t *testing.T) {
	var v struct{}
	err := LoadRequest("/nonexistent/request.yaml", &v)
	if err == nil || !strings.Contains(err.Error(), "failed to read file") {
		t.Fatalf("error = %v, want a read failure", err)
	}
}

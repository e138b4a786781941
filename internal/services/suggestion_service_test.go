package services

import (
	"reflect"
	"testing"
)

func TestSuggestForPath(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantLabels []string
	}{
		{"products page", "/products", []string{"See Brush Cutters", "Get a custom quote"}},
		{"product detail", "/products/brush-cutter", []string{"See Brush Cutters", "Get a custom quote"}},
		{"pricing page", "/pricing", []string{"Request a demo", "Talk to sales"}},
		{"home", "/", []string{"Browse products"}},
		{"unknown route", "/blog/posts", []string{"Browse products"}},
		{"empty path", "", []string{"Browse products"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestForPath(tt.path)
			if len(got) != len(tt.wantLabels) {
				t.Fatalf("SuggestForPath(%q) returned %d suggestions, want %d", tt.path, len(got), len(tt.wantLabels))
			}
			for i, want := range tt.wantLabels {
				if got[i].Label != want {
					t.Errorf("suggestion[%d].Label = %q, want %q", i, got[i].Label, want)
				}
				if got[i].Type != "cta" {
					t.Errorf("suggestion[%d].Type = %q, want cta", i, got[i].Type)
				}
				if got[i].URL == "" {
					t.Errorf("suggestion[%d] has empty URL", i)
				}
			}
		})
	}
}

func TestSuggestForPathDeterministic(t *testing.T) {
	for _, path := range []string{"/products", "/pricing", "/"} {
		first := SuggestForPath(path)
		second := SuggestForPath(path)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("SuggestForPath(%q) not deterministic", path)
		}
	}
}

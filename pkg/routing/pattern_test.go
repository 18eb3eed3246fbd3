package routing

import (
	"reflect"
	"testing"
)

func TestCompileExact(t *testing.T) {
	p, err := Compile("http://api.test/v1/users")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if len(p.Names()) != 0 {
		t.Errorf("exact pattern should have no capture names, got %v", p.Names())
	}

	params, ok := p.Match("http://api.test/v1/users")
	if !ok {
		t.Fatal("expected exact match")
	}
	if len(params) != 0 {
		t.Errorf("exact match should yield empty params, got %v", params)
	}

	if _, ok := p.Match("http://api.test/v1/users/42"); ok {
		t.Error("exact pattern must not match a longer URL")
	}
	if _, ok := p.Match("http://api.test/v1/user"); ok {
		t.Error("exact pattern must not partially match")
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{"unclosed placeholder", "/users/{id"},
		{"empty name", "/users/{}"},
		{"duplicate name", "/users/{id}/posts/{id}"},
		{"duplicate after normalization", "/users/{user-id}/{user_id}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.template); err == nil {
				t.Errorf("Compile(%q) should fail", tt.template)
			}
		})
	}
}

func TestMatchNamedParams(t *testing.T) {
	tests := []struct {
		name     string
		template string
		url      string
		want     Params
	}{
		{
			name:     "single segment param",
			template: "http://api.test/users/{id}",
			url:      "http://api.test/users/42",
			want:     Params{"id": "42"},
		},
		{
			name:     "param between literals",
			template: "http://api.test/users/{id}/posts",
			url:      "http://api.test/users/7/posts",
			want:     Params{"id": "7"},
		},
		{
			name:     "two params",
			template: "http://api.test/users/{uid}/posts/{pid}",
			url:      "http://api.test/users/7/posts/9",
			want:     Params{"uid": "7", "pid": "9"},
		},
		{
			name:     "query string params",
			template: "http://api.test/search?q={q}&page={page}",
			url:      "http://api.test/search?q=golang&page=2",
			want:     Params{"q": "golang", "page": "2"},
		},
		{
			name:     "dashed name normalized",
			template: "http://api.test/users/{user-id}",
			url:      "http://api.test/users/42",
			want:     Params{"user_id": "42"},
		},
		{
			name:     "greedy capture backtracks",
			template: "http://api.test/files/{name}.{ext}",
			url:      "http://api.test/files/report.v2.json",
			want:     Params{"name": "report.v2", "ext": "json"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.template)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			params, ok := p.Match(tt.url)
			if !ok {
				t.Fatalf("Match(%q) failed", tt.url)
			}
			if !reflect.DeepEqual(params, tt.want) {
				t.Errorf("params = %v, want %v", params, tt.want)
			}
		})
	}
}

func TestMatchRejects(t *testing.T) {
	tests := []struct {
		name     string
		template string
		url      string
	}{
		{
			name:     "extra trailing segment",
			template: "http://api.test/users/{id}",
			url:      "http://api.test/users/42/extra",
		},
		{
			name:     "capture may not span slash",
			template: "http://api.test/{rest}",
			url:      "http://api.test/a/b",
		},
		{
			name:     "capture may not span ampersand",
			template: "http://api.test/search?q={q}",
			url:      "http://api.test/search?q=a&page=2",
		},
		{
			name:     "capture needs at least one character",
			template: "http://api.test/users/{id}",
			url:      "http://api.test/users/",
		},
		{
			name:     "literal prefix mismatch",
			template: "http://api.test/users/{id}",
			url:      "http://api.test/items/42",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.template)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			if _, ok := p.Match(tt.url); ok {
				t.Errorf("Match(%q) should fail", tt.url)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("user-id"); got != "user_id" {
		t.Errorf("NormalizeName = %q, want user_id", got)
	}
	if got := NormalizeName("plain"); got != "plain" {
		t.Errorf("NormalizeName = %q, want plain", got)
	}
}

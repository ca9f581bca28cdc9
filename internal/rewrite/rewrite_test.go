// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package rewrite

import (
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

const base = "https://proxy.example"

func mustDecode(t *testing.T, s string) any {
	t.Helper()
	v, err := Decode([]byte(s))
	if err != nil {
		t.Fatalf("Decode(%s) error = %v", s, err)
	}
	return v
}

func mustEncode(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	return string(b)
}

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"https host", "https://cover.imglib.info/uploads/anime/1/cover.jpg", base + "/api/proxy/uploads/anime/1/cover.jpg"},
		{"http host", "http://cover.imglib.info/uploads/a.png", base + "/api/proxy/uploads/a.png"},
		{"bare host", "cover.imglib.info/uploads/a.webp", base + "/api/proxy/uploads/a.webp"},
		{"protocol relative", "//cover.imglib.info/uploads/a.gif", base + "/api/proxy/uploads/a.gif"},
		{"host without path unchanged", "https://cover.imglib.info", "https://cover.imglib.info"},
		{"host with slash only unchanged", "https://cover.imglib.info/", "https://cover.imglib.info/"},
		{"unknown host unchanged", "https://other.cdn/uploads/a.jpg", "https://other.cdn/uploads/a.jpg"},
		{"placeholder unchanged", "https://cover.imglib.info/placeholders/none.png", "https://cover.imglib.info/placeholders/none.png"},
		{"already proxied", base + "/api/proxy/uploads/a.jpg", base + "/api/proxy/uploads/a.jpg"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URL(tt.in, base); got != tt.want {
				t.Errorf("URL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRewrite_IdentityWithoutImageHosts(t *testing.T) {
	inputs := []string{
		`{"data":[{"id":1,"name":"Naruto","rus_name":"Наруто","score":9.5,"tags":["a","b"],"next":null,"ok":true}]}`,
		`[1,2.5,"x",false,null,{"a":{"b":[{"c":"d"}]}}]`,
		`"https://cover.imglib.info/uploads/top-level-string.jpg"`,
		`12345678901234567890`,
		`{}`,
		`{"cover":null,"poster":{"default":"https://elsewhere/x.jpg"}}`,
	}
	for _, in := range inputs {
		v := mustDecode(t, in)
		got := Rewrite(v, base)
		if !reflect.DeepEqual(got, v) {
			t.Errorf("Rewrite(%s) = %v, want identity", in, got)
		}
		if enc := mustEncode(t, got); enc != in {
			t.Errorf("round trip = %s, want %s", enc, in)
		}
	}
}

func TestRewrite_CoverObject(t *testing.T) {
	in := mustDecode(t, `{"id":7,"cover":{"default":"https://cover.imglib.info/uploads/7/d.jpg","thumbnail":"cover.imglib.info/uploads/7/t.jpg","md5":"abc","size":{"w":1}},"name":"x"}`)

	got := mustEncode(t, Rewrite(in, base))
	want := `{"id":7,"cover":{"default":"https://proxy.example/api/proxy/uploads/7/d.jpg","thumbnail":"https://proxy.example/api/proxy/uploads/7/t.jpg","md5":"abc","size":{"w":1}},"name":"x"}`
	if got != want {
		t.Errorf("Rewrite() = %s\nwant %s", got, want)
	}
}

// Strings that are direct array elements are not rewritten; only object
// members are.
func TestRewrite_NestedStringsAndArrays(t *testing.T) {
	in := mustDecode(t, `{"data":[{"background":{"url":"https://cover.imglib.info/uploads/bg.jpg"}},{"avatar":"uploads/users/1.png"}],"links":["https://cover.imglib.info/uploads/a.jpg","plain"]}`)

	got := mustEncode(t, Rewrite(in, base))
	want := `{"data":[{"background":{"url":"https://proxy.example/api/proxy/uploads/bg.jpg"}},{"avatar":"uploads/users/1.png"}],"links":["https://cover.imglib.info/uploads/a.jpg","plain"]}`
	if got != want {
		t.Errorf("Rewrite() = %s\nwant %s", got, want)
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	in := mustDecode(t, `{"cover":{"default":"https://cover.imglib.info/uploads/a.jpg"},"list":[{"img":"http://cover.imglib.info/uploads/b.png"}]}`)

	once := Rewrite(in, base)
	twice := Rewrite(once, base)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Rewrite not idempotent:\n once  = %s\n twice = %s", mustEncode(t, once), mustEncode(t, twice))
	}
	if strings.Count(mustEncode(t, twice), "/api/proxy/") != 2 {
		t.Errorf("expected exactly two proxied URLs, got %s", mustEncode(t, twice))
	}
}

func TestRewrite_DoesNotMutateInput(t *testing.T) {
	in := mustDecode(t, `{"cover":{"default":"https://cover.imglib.info/uploads/a.jpg"},"items":["https://cover.imglib.info/uploads/b.jpg"]}`)
	before := mustEncode(t, in)

	_ = Rewrite(in, base)

	if after := mustEncode(t, in); after != before {
		t.Errorf("input mutated: before %s, after %s", before, after)
	}
}

func TestRewrite_MapInput(t *testing.T) {
	in := map[string]any{
		"cover": map[string]any{"default": "https://cover.imglib.info/uploads/a.jpg"},
		"n":     1,
	}
	got := Rewrite(in, base).(map[string]any)
	cover := got["cover"].(map[string]any)
	if cover["default"] != base+"/api/proxy/uploads/a.jpg" {
		t.Errorf("cover.default = %v", cover["default"])
	}
	if in["cover"].(map[string]any)["default"] != "https://cover.imglib.info/uploads/a.jpg" {
		t.Error("input map mutated")
	}
}

func TestRewriter_CustomHosts(t *testing.T) {
	rw := Rewriter{Hosts: []string{"https://img.new-cdn.example", "img.new-cdn.example"}}

	if got := rw.URL("https://img.new-cdn.example/uploads/x.jpg", base); got != base+"/api/proxy/uploads/x.jpg" {
		t.Errorf("URL() = %q", got)
	}
	if got := rw.URL("https://cover.imglib.info/uploads/x.jpg", base); got != "https://cover.imglib.info/uploads/x.jpg" {
		t.Errorf("default host should not match custom rewriter, got %q", got)
	}
}

func TestDecode(t *testing.T) {
	v := mustDecode(t, `{"b":1,"a":2,"id":9007199254740993}`)
	obj, ok := v.(Object)
	if !ok {
		t.Fatalf("Decode() type = %T, want Object", v)
	}
	if obj[0].Key != "b" || obj[1].Key != "a" {
		t.Errorf("member order = %s,%s, want b,a", obj[0].Key, obj[1].Key)
	}
	id, _ := obj.Get("id")
	if id != json.Number("9007199254740993") {
		t.Errorf("id = %v, want exact json.Number", id)
	}
	if _, ok := obj.Get("missing"); ok {
		t.Error("Get(missing) ok = true")
	}

	for _, bad := range []string{`{"a":1} {"b":2}`, `{"a":`, `<html>403</html>`, ``} {
		if _, err := Decode([]byte(bad)); err == nil {
			t.Errorf("Decode(%q) error = nil, want error", bad)
		}
	}
}

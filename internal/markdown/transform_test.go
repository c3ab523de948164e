package markdown

import "testing"

func TestTransformRewritesLocalEmbeds(t *testing.T) {
	tr := NewTransformer("@assets", "blog")

	got := tr.Transform("![[photo.jpg]]\nBody text.\n\n", "trip", nil)
	want := "![photo.jpg](@assets/blog/trip/photo.jpg)\nBody text."
	if got != want {
		t.Fatalf("unexpected body\n got: %q\nwant: %q", got, want)
	}
}

func TestTransformExternalEmbeds(t *testing.T) {
	tr := NewTransformer("@assets/", "/blog/")
	downloads := map[string]string{
		"https://x.test/sunset.png": "sunset-1a2b3c4d.png",
	}

	got := tr.Transform("![[https://x.test/sunset.png]]\n![[https://x.test/a/missing.png]]", "s", downloads)
	want := "![sunset](@assets/blog/s/sunset-1a2b3c4d.png)\n![missing.png](https://x.test/a/missing.png)"
	if got != want {
		t.Fatalf("unexpected body\n got: %q\nwant: %q", got, want)
	}
}

func TestTransformExternalImages(t *testing.T) {
	tr := NewTransformer("@assets", "blog")
	downloads := map[string]string{
		"https://x.test/2.jpg": "2-deadbeef.jpg",
	}

	got := tr.Transform(`![A view](https://x.test/2.jpg "caption") and ![kept](https://x.test/3.jpg)`, "post", downloads)
	want := "![A view](@assets/blog/post/2-deadbeef.jpg) and ![kept](https://x.test/3.jpg)"
	if got != want {
		t.Fatalf("unexpected body\n got: %q\nwant: %q", got, want)
	}
}

func TestTransformEncodesBracesInRemoteURLs(t *testing.T) {
	tr := NewTransformer("@assets", "blog")

	got := tr.Transform("![[https://ex.com/a{b}.png]]\n![x {y}](https://ex.com/c{d}.png \"t\") {z}", "post", nil)
	want := "![a\\{b\\}.png](https://ex.com/a%7Bb%7D.png)\n![x \\{y\\}](https://ex.com/c%7Bd%7D.png \"t\") \\{z\\}"
	if got != want {
		t.Fatalf("unexpected body\n got: %q\nwant: %q", got, want)
	}
}

func TestEscapeBraces(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"prose", "Use {braces} in code", `Use \{braces\} in code`},
		{"inline code", "Use `{braces}` in code", "Use `{braces}` in code"},
		{"mixed", "a {b} `{c}` {d}", "a \\{b\\} `{c}` \\{d\\}"},
		{"fenced", "```\nUse `{braces}` in code\n{x}\n```", "```\nUse `{braces}` in code\n{x}\n```"},
		{"indented fence", "  ```go\nfunc() {}\n  ```\n{after}", "  ```go\nfunc() {}\n  ```\n\\{after\\}"},
		{"no braces", "plain text", "plain text"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EscapeBraces(tc.in); got != tc.want {
				t.Fatalf("EscapeBraces(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFirstAsset(t *testing.T) {
	tr := NewTransformer("@assets", "blog")
	body := "![remote](https://x.test/a.png)\n![one](@assets/blog/post/one.png) ![two](@assets/blog/post/two.png)"

	if got := tr.FirstAsset(body, "post"); got != "one.png" {
		t.Fatalf("expected first asset, got %q", got)
	}
	if got := tr.FirstAsset("no images", "post"); got != "" {
		t.Fatalf("expected no asset, got %q", got)
	}

	if got := tr.Assets(body, "post"); len(got) != 2 || got[1] != "two.png" {
		t.Fatalf("unexpected assets %#v", got)
	}
}

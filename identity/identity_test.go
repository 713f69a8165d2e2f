package identity

import "testing"

func TestCanonicalImportURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://krisha.kz/a/show/123", "https://krisha.kz/a/show/123"},
		{"http://krisha.kz/a/show/123", "https://krisha.kz/a/show/123"},
		{"https://www.krisha.kz/a/show/123", "https://krisha.kz/a/show/123"},
		{"https://KRISHA.KZ/a/show/123", "https://krisha.kz/a/show/123"},
		{"https://krisha.kz/a/show/123/", "https://krisha.kz/a/show/123"},
		{"https://krisha.kz/a/show/123?utm_source=tg&ref=1", "https://krisha.kz/a/show/123"},
		{"https://krisha.kz/a/show/123#gallery", "https://krisha.kz/a/show/123"},
		{"  https://krisha.kz/a/show/123  ", "https://krisha.kz/a/show/123"},
	}

	for _, tc := range cases {
		if got := CanonicalImportURL(tc.in); got != tc.want {
			t.Fatalf("CanonicalImportURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalImportURL_Unparseable(t *testing.T) {
	if got := CanonicalImportURL("  not-a-url  "); got != "not-a-url" {
		t.Fatalf("expected trimmed input back, got %q", got)
	}
}

func TestCanonicalImportURL_VariantsCollapse(t *testing.T) {
	variants := []string{
		"http://www.krisha.kz/a/show/700?from=search",
		"https://krisha.kz/a/show/700/",
		"HTTPS://KRISHA.kz/a/show/700",
	}
	want := CanonicalImportURL(variants[0])
	for _, v := range variants[1:] {
		if got := CanonicalImportURL(v); got != want {
			t.Fatalf("variant %q canonicalized to %q, want %q", v, got, want)
		}
	}
}

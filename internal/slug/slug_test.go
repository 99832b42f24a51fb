package slug

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/naruto", "naruto"},
		{"/naruto-shippuden:-final", "naruto-shippuden-final"},
		{"//one-piece//", "one-piece"},
		{"Clannad:-After-Story", "clannad-after-story"},
		{"a--b", "a-b"},
		{"---", ""},
		{"https://legacy/path", "https-legacy-path"},
		{"already-clean", "already-clean"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"", "/naruto-shippuden:-final", "Tōkyō Ghoul", "a b c", "UPPER",
		"--x--", "42", "ü-ö", "spy x family",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestFromTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Naruto", "naruto"},
		{"Spy x Family", "spy-x-family"},
		{"Steins;Gate 0", "steins-gate-0"},
		{"  padded  ", "padded"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := FromTitle(tc.in); got != tc.want {
			t.Errorf("FromTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFromTitleShape(t *testing.T) {
	inputs := []string{"Psychological Thriller", "One-Punch Man!", "A  B   C", "Ēvangelion"}
	for _, in := range inputs {
		got := FromTitle(in)
		for i := 0; i < len(got); i++ {
			c := got[i]
			if c >= 'A' && c <= 'Z' {
				t.Errorf("FromTitle(%q) = %q contains uppercase", in, got)
			}
		}
		if len(got) > 0 && (got[0] == '-' || got[len(got)-1] == '-') {
			t.Errorf("FromTitle(%q) = %q has edge hyphen", in, got)
		}
		for i := 1; i < len(got); i++ {
			if got[i] == '-' && got[i-1] == '-' {
				t.Errorf("FromTitle(%q) = %q has consecutive hyphens", in, got)
			}
		}
	}
}

package matching

import "testing"

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"F# min", "f# min"},
		{"F#m", "f# min"},
		{"f# minor", "f# min"},
		{"Gb minor", "f# min"},
		{"11A", "f# min"},
		{"8A", "a min"},
		{"8B", "c maj"},
		{"C", "c maj"},
		{"Cmaj", "c maj"},
		{"Ab", "g# maj"},
		{"A♭ m", "g# min"},
		{"", ""},
		{"H min", ""},
		{"not a key", ""},
	}
	for _, tc := range cases {
		if got := NormalizeKey(tc.in); got != tc.want {
			t.Fatalf("NormalizeKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestKeysMatch(t *testing.T) {
	if !keysMatch("11A", "F# min") {
		t.Fatal("Camelot 11A should match F# min")
	}
	if !keysMatch("Gb major", "F# maj") {
		t.Fatal("enharmonic spellings should match")
	}
	if keysMatch("8A", "8B") {
		t.Fatal("relative keys must not match")
	}
	if keysMatch("", "") {
		t.Fatal("empty keys must not match")
	}
}

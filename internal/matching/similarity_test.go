package matching

import "testing"

func TestSimilarityIdenticalTokenSets(t *testing.T) {
	s := newSimilarityScorer()
	if got := s.similarity("Breathe", "Breathe"); got != 100 {
		t.Fatalf("identical strings = %v, want 100", got)
	}
	if got := s.similarity("CamelPhat Breathe", "Breathe CamelPhat"); got != 100 {
		t.Fatalf("reordered tokens = %v, want 100", got)
	}
	if got := s.similarity("Cola (Cola) COLA", "cola"); got != 100 {
		t.Fatalf("duplicate tokens = %v, want 100", got)
	}
}

func TestSimilarityEmptyInput(t *testing.T) {
	s := newSimilarityScorer()
	if got := s.similarity("", "Breathe"); got != 0 {
		t.Fatalf("empty left = %v, want 0", got)
	}
	if got := s.similarity("Breathe", "  ()  "); got != 0 {
		t.Fatalf("tokenless right = %v, want 0", got)
	}
}

func TestSimilarityOrdering(t *testing.T) {
	s := newSimilarityScorer()
	near := s.similarity("Tighter (CamelPhat Remix)", "Tighter (CamelPhat Extended Remix)")
	far := s.similarity("Tighter (CamelPhat Remix)", "Opus")
	if near <= far {
		t.Fatalf("near = %v should exceed far = %v", near, far)
	}
	if near < 75 || near >= 100 {
		t.Fatalf("near = %v, want within [75, 100)", near)
	}
	if far > 50 {
		t.Fatalf("far = %v, want at most 50", far)
	}
}

func TestSimilarityNoisyTitleVariant(t *testing.T) {
	s := newSimilarityScorer()
	got := s.similarity(
		"Tighter (CamelPhat Remix)",
		"Tighter (feat. Jalja) CamelPhat Extended Remix",
	)
	if got < 78 || got > 92 {
		t.Fatalf("noisy variant similarity = %v, want within [78, 92]", got)
	}
}

func TestSimilarityBounds(t *testing.T) {
	s := newSimilarityScorer()
	pairs := [][2]string{
		{"Sun", "Son of Sun"},
		{"Breathe", "Breath"},
		{"Atlas Pt 2", "Atlas"},
	}
	for _, pair := range pairs {
		got := s.similarity(pair[0], pair[1])
		if got < 0 || got > 100 {
			t.Fatalf("similarity(%q, %q) = %v, out of [0, 100]", pair[0], pair[1], got)
		}
	}
}

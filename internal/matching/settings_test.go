package matching

import "testing"

func TestWithDefaultsFillsEveryScoringField(t *testing.T) {
	got := Settings{}.withDefaults()
	def := DefaultSettings()

	if got.YearBonus != def.YearBonus || got.KeyBonus != def.KeyBonus {
		t.Fatalf("bonuses = %v/%v, want %v/%v", got.YearBonus, got.KeyBonus, def.YearBonus, def.KeyBonus)
	}
	if got.RelatedMixPenalty != def.RelatedMixPenalty {
		t.Fatalf("related-mix penalty = %v, want %v", got.RelatedMixPenalty, def.RelatedMixPenalty)
	}
	if got.MixConflictPenalty != def.MixConflictPenalty {
		t.Fatalf("mix-conflict penalty = %v, want %v", got.MixConflictPenalty, def.MixConflictPenalty)
	}
	if got.TitleWeight != def.TitleWeight || got.ArtistWeight != def.ArtistWeight {
		t.Fatalf("weights = %v/%v, want %v/%v", got.TitleWeight, got.ArtistWeight, def.TitleWeight, def.ArtistWeight)
	}
}

func TestWithDefaultsKeepsExplicitValues(t *testing.T) {
	got := Settings{YearBonus: 5, MixConflictPenalty: 20, MaxQueries: 3}.withDefaults()
	if got.YearBonus != 5 {
		t.Fatalf("year bonus = %v, want the explicit 5", got.YearBonus)
	}
	if got.MixConflictPenalty != 20 {
		t.Fatalf("mix-conflict penalty = %v, want the explicit 20", got.MixConflictPenalty)
	}
	if got.MaxQueries != 3 {
		t.Fatalf("max queries = %v, want the explicit 3", got.MaxQueries)
	}
}

func TestZeroSettingsApplyMixPenalty(t *testing.T) {
	eval := NewEvaluator(Settings{})
	track := Track{Title: "Tighter (CamelPhat Remix)", Artists: []string{"HOSH"}}
	candidate := Candidate{
		Title:   "Tighter (CamelPhat Extended Remix)",
		Artists: []string{"CamelPhat"},
	}
	scored := eval.Evaluate(track, candidate)
	if scored.Penalties != DefaultSettings().RelatedMixPenalty {
		t.Fatalf("penalties = %v, want the default related-mix penalty %v",
			scored.Penalties, DefaultSettings().RelatedMixPenalty)
	}
}

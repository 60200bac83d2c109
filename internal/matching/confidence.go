package matching

// ConfidenceFor maps a final score into the coarse confidence label. Pure
// function of the score and the configured bands.
func ConfidenceFor(score float64, settings Settings) Confidence {
	settings = settings.withDefaults()
	switch {
	case score >= settings.HighConfidenceThreshold:
		return ConfidenceHigh
	case score >= settings.AcceptThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

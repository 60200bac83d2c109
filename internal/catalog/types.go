package catalog

import "cratematch/internal/matching"

// searchResult is one track entry in the Beatsearch search payload.
type searchResult struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Artists     []string `json:"artists"`
	Label       string   `json:"label"`
	ReleaseDate string   `json:"release_date"`
	BPM         int      `json:"bpm"`
	Key         string   `json:"key"`
	Genre       string   `json:"genre"`
}

// searchResponse models the paginated search payload.
type searchResponse struct {
	Query   string         `json:"query"`
	Results []searchResult `json:"results"`
	Total   int            `json:"total"`
}

func (r searchResult) candidate() matching.Candidate {
	return matching.Candidate{
		URL:         r.URL,
		Title:       r.Title,
		Artists:     r.Artists,
		Label:       r.Label,
		ReleaseDate: r.ReleaseDate,
		BPM:         r.BPM,
		Key:         r.Key,
		Genre:       r.Genre,
	}
}

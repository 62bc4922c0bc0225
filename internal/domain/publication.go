package domain

import "time"

// Author is one entry of a publication's author list, in listing order.
// ORCID is empty when the listing carries no identifier for the name.
type Author struct {
	Name  string
	ORCID string
}

// Publication is the core entity recovered from one listing fragment.
type Publication struct {
	Title             string
	JournalURL        string
	Year              int
	ID                string
	FeedURL           string
	DOI               string
	PubMedID          string
	UpdatedAt         time.Time
	EditorialDecision bool
	Authors           []Author
}

// Citation holds bibliographic metadata looked up for a DOI. Fields may be
// empty individually; a nil *Citation means the lookup failed outright.
type Citation struct {
	Journal     string
	JournalAbbr string
	Volume      string
	Pages       string
}

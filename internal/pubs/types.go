// Package pubs provides a rate-limited HTTP client for the scholarly
// publication metadata API, used to list research literature about a taxon.
package pubs

// Author is one paper author.
type Author struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

// Journal is the venue a paper appeared in.
type Journal struct {
	Name   string `json:"name"`
	Volume string `json:"volume,omitempty"`
	Pages  string `json:"pages,omitempty"`
}

// ExternalIDs carries a paper's identifiers in other registries.
type ExternalIDs struct {
	DOI    string `json:"DOI,omitempty"`
	ArXiv  string `json:"ArXiv,omitempty"`
	PubMed string `json:"PubMed,omitempty"`
}

// OpenAccessPDF points at a freely readable copy of a paper.
type OpenAccessPDF struct {
	URL string `json:"url"`
}

// Paper is one publication record.
type Paper struct {
	PaperID         string         `json:"paperId"`
	Title           string         `json:"title"`
	Abstract        string         `json:"abstract,omitempty"`
	Year            int            `json:"year,omitempty"`
	PublicationDate string         `json:"publicationDate,omitempty"`
	CitationCount   int            `json:"citationCount"`
	ReferenceCount  int            `json:"referenceCount"`
	Authors         []Author       `json:"authors,omitempty"`
	Journal         *Journal       `json:"journal,omitempty"`
	ExternalIDs     *ExternalIDs   `json:"externalIds,omitempty"`
	OpenAccessPDF   *OpenAccessPDF `json:"openAccessPdf,omitempty"`
}

// DOI returns the paper's DOI, or "".
func (p *Paper) DOI() string {
	if p.ExternalIDs == nil {
		return ""
	}
	return p.ExternalIDs.DOI
}

// PDFLink returns the open-access PDF URL, or "".
func (p *Paper) PDFLink() string {
	if p.OpenAccessPDF == nil {
		return ""
	}
	return p.OpenAccessPDF.URL
}

// SearchPage is one page of search results.
type SearchPage struct {
	Total  int     `json:"total"`
	Offset int     `json:"offset"`
	Next   int     `json:"next,omitempty"`
	Data   []Paper `json:"data"`
}

// HasMore reports whether another page follows this one.
func (p *SearchPage) HasMore() bool {
	return p.Next > 0 && p.Next < p.Total
}

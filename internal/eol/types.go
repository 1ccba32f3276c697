package eol

import "strings"

// Result is one hit of the EOL search API.
type Result struct {
	ID      int64
	Title   string
	Link    string
	Content string // semicolon-separated common names
}

// SearchPage is a decoded search response with its paging metadata.
type SearchPage struct {
	TotalResults int
	StartIndex   int
	ItemsPerPage int
	Results      []Result
}

// Taxon is the detail record behind a search result.
type Taxon struct {
	ID             int64
	ScientificName string
	RichnessScore  *float64
	Concepts       []TaxonConcept
	DataObjects    []DataObject
}

// TaxonConcept is one source's view of a taxon.
type TaxonConcept struct {
	ID               int64
	ScientificName   string
	Name             string
	NameAccordingTo  string
	CanonicalForm    string
	SourceIdentifier string
	Rank             string
}

// DataObject is a media item attached to a taxon.
type DataObject struct {
	MediaURL     string
	License      string
	RightsHolder string
	Agents       []Agent
}

// Agent credits a person for a data object.
type Agent struct {
	FullName string
	Role     string
}

func (t *Taxon) firstObject() *DataObject {
	if len(t.DataObjects) == 0 {
		return nil
	}
	return &t.DataObjects[0]
}

// MediaURL returns the URL of the first image, or "".
func (t *Taxon) MediaURL() string {
	if o := t.firstObject(); o != nil {
		return o.MediaURL
	}
	return ""
}

// TaxonomySources lists the hierarchies the taxon is described in.
func (t *Taxon) TaxonomySources() []string {
	sources := make([]string, 0, len(t.Concepts))
	for _, c := range t.Concepts {
		sources = append(sources, c.NameAccordingTo)
	}
	return sources
}

// ImageLicense returns the license of the first image, or "".
func (t *Taxon) ImageLicense() string {
	if o := t.firstObject(); o != nil {
		return o.License
	}
	return ""
}

// ImageRightsHolder returns the rights holder of the first image, or "".
func (t *Taxon) ImageRightsHolder() string {
	if o := t.firstObject(); o != nil {
		return o.RightsHolder
	}
	return ""
}

// ImageCredit returns the photographer of the first image, or "".
func (t *Taxon) ImageCredit() string {
	o := t.firstObject()
	if o == nil {
		return ""
	}
	for _, a := range o.Agents {
		if strings.EqualFold(a.Role, "photographer") {
			return a.FullName
		}
	}
	return ""
}

// CommonNames splits Content into its individual names.
func (r *Result) CommonNames() []string {
	var names []string
	for n := range strings.SplitSeq(r.Content, ";") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

type wireSearch struct {
	TotalResults int `json:"totalResults"`
	StartIndex   int `json:"startIndex"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type wireResult struct {
	ID      *int64  `json:"id"`
	Title   *string `json:"title"`
	Link    string  `json:"link"`
	Content string  `json:"content"`
}

type wirePage struct {
	TaxonConcept *wireTaxon `json:"taxonConcept"`
}

type wireTaxon struct {
	Identifier     *int64             `json:"identifier"`
	ScientificName *string            `json:"scientificName"`
	RichnessScore  *float64           `json:"richnessScore"`
	TaxonConcepts  []wireTaxonConcept `json:"taxonConcepts"`
	DataObjects    []wireDataObject   `json:"dataObjects"`
}

type wireTaxonConcept struct {
	Identifier       int64  `json:"identifier"`
	ScientificName   string `json:"scientificName"`
	Name             string `json:"name"`
	NameAccordingTo  string `json:"nameAccordingTo"`
	CanonicalForm    string `json:"canonicalForm"`
	SourceIdentifier string `json:"sourceIdentifier"`
	TaxonRank        string `json:"taxonRank"`
}

type wireDataObject struct {
	MediaURL     string      `json:"mediaURL"`
	License      string      `json:"license"`
	RightsHolder string      `json:"rightsHolder"`
	Agents       []wireAgent `json:"agents"`
}

type wireAgent struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

package eol

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/llehouerou/tunesearch/internal/remote"
	"github.com/llehouerou/tunesearch/internal/search"
)

// DecodeSearch parses a search response, paging metadata included.
func DecodeSearch(body []byte) (*SearchPage, error) {
	return decodeSearch(context.Background(), body)
}

func decodeSearch(ctx context.Context, body []byte) (*SearchPage, error) {
	records, err := remote.Results(body)
	if err != nil {
		return nil, err
	}

	var meta wireSearch
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, search.DecodeFailure(err.Error())
	}

	page := &SearchPage{
		TotalResults: meta.TotalResults,
		StartIndex:   meta.StartIndex,
		ItemsPerPage: meta.ItemsPerPage,
		Results:      make([]Result, 0, len(records)),
	}
	for i, raw := range records {
		if ctx.Err() != nil {
			return nil, search.Cancelled()
		}
		r, err := decodeResult(raw)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		page.Results = append(page.Results, r)
	}
	return page, nil
}

func decodeResult(raw json.RawMessage) (Result, error) {
	var w wireResult
	if err := json.Unmarshal(raw, &w); err != nil {
		return Result{}, search.DecodeFailure(err.Error())
	}
	if w.ID == nil {
		return Result{}, search.MissingField("id")
	}
	if w.Title == nil {
		return Result{}, search.MissingField("title")
	}
	return Result{
		ID:      *w.ID,
		Title:   *w.Title,
		Link:    w.Link,
		Content: w.Content,
	}, nil
}

// DecodeTaxon parses a pages API response.
func DecodeTaxon(body []byte) (*Taxon, error) {
	var page wirePage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, search.DecodeFailure(err.Error())
	}
	w := page.TaxonConcept
	if w == nil {
		return nil, search.MissingField("taxonConcept")
	}
	if w.Identifier == nil {
		return nil, search.MissingField("identifier")
	}
	if w.ScientificName == nil {
		return nil, search.MissingField("scientificName")
	}

	t := &Taxon{
		ID:             *w.Identifier,
		ScientificName: *w.ScientificName,
		RichnessScore:  w.RichnessScore,
	}
	for _, c := range w.TaxonConcepts {
		t.Concepts = append(t.Concepts, TaxonConcept{
			ID:               c.Identifier,
			ScientificName:   c.ScientificName,
			Name:             c.Name,
			NameAccordingTo:  c.NameAccordingTo,
			CanonicalForm:    c.CanonicalForm,
			SourceIdentifier: c.SourceIdentifier,
			Rank:             c.TaxonRank,
		})
	}
	for _, o := range w.DataObjects {
		obj := DataObject{
			MediaURL:     o.MediaURL,
			License:      o.License,
			RightsHolder: o.RightsHolder,
		}
		for _, a := range o.Agents {
			obj.Agents = append(obj.Agents, Agent(a))
		}
		t.DataObjects = append(t.DataObjects, obj)
	}
	return t, nil
}

// Package catalog assembles a searchable catalog from configuration: the
// fetcher, how typed text becomes parameters, and how results render.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/llehouerou/tunesearch/internal/config"
	"github.com/llehouerou/tunesearch/internal/eol"
	"github.com/llehouerou/tunesearch/internal/itunes"
	"github.com/llehouerou/tunesearch/internal/remote"
	"github.com/llehouerou/tunesearch/internal/search"
	"github.com/llehouerou/tunesearch/internal/ui/searchview"
)

// Catalog is one configured provider.
type Catalog[T any] struct {
	Name    string // config.ProviderITunes or config.ProviderEOL
	Label   string
	Fetcher search.Fetcher[T]
	Params  search.ParamsFunc
	Render  searchview.Renderer[T]
}

// ClientOptions maps the search settings onto the HTTP client.
func ClientOptions(cfg *config.Config, logger *slog.Logger) []remote.Option {
	return []remote.Option{
		remote.WithTimeout(cfg.GetSearchConfig().Timeout()),
		remote.WithLogger(logger),
	}
}

// ITunes builds the iTunes Store catalog.
func ITunes(cfg *config.Config, opts ...remote.Option) (*Catalog[itunes.Item], error) {
	ic := cfg.GetITunesConfig()
	client, err := itunes.New(ic.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("itunes client: %w", err)
	}
	params := itunes.Params{Country: ic.Country, Media: ic.Media, Entity: ic.Entity, Limit: ic.Limit}

	return &Catalog[itunes.Item]{
		Name:    config.ProviderITunes,
		Label:   "iTunes",
		Fetcher: client,
		Params:  params.For,
		Render: searchview.Renderer[itunes.Item]{
			Row:    itunesRow,
			Detail: func(it itunes.Item) string { return it.Description() },
		},
	}, nil
}

func itunesRow(it itunes.Item) (string, string) {
	title := it.Title
	if it.Artist != "" {
		title += " · " + it.Artist
	}
	if it.Explicit {
		title += " [E]"
	}
	return title, it.FormatPrice()
}

// EOL builds the Encyclopedia of Life catalog. Enter loads the taxon
// page of the selected result.
func EOL(cfg *config.Config, opts ...remote.Option) (*Catalog[eol.Result], error) {
	client, err := eol.New(cfg.GetEOLConfig().BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("eol client: %w", err)
	}

	return &Catalog[eol.Result]{
		Name:    config.ProviderEOL,
		Label:   "Encyclopedia of Life",
		Fetcher: client,
		Params:  eol.ParamsFor,
		Render: searchview.Renderer[eol.Result]{
			Row:    eolRow,
			Detail: eolDetail,
			Expand: func(ctx context.Context, r eol.Result) (string, error) {
				taxon, err := client.Taxon(ctx, r.ID)
				if err != nil {
					return "", err
				}
				return TaxonDetail(taxon), nil
			},
		},
	}, nil
}

func eolRow(r eol.Result) (string, string) {
	names := r.CommonNames()
	if len(names) == 0 {
		return r.Title, ""
	}
	return r.Title, names[0]
}

func eolDetail(r eol.Result) string {
	lines := []string{r.Link}
	if names := r.CommonNames(); len(names) > 0 {
		lines = append(lines, "Also known as "+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n")
}

// TaxonDetail summarizes a taxon page in a few lines.
func TaxonDetail(t *eol.Taxon) string {
	lines := []string{t.ScientificName}
	if sources := t.TaxonomySources(); len(sources) > 0 {
		lines = append(lines, "Classified by "+strings.Join(sources, "; "))
	}
	if url := t.MediaURL(); url != "" {
		lines = append(lines, "Image: "+url)
		credit := t.ImageCredit()
		if credit == "" {
			credit = t.ImageRightsHolder()
		}
		if credit != "" || t.ImageLicense() != "" {
			lines = append(lines, strings.TrimSpace("© "+credit+" "+t.ImageLicense()))
		}
	}
	return strings.Join(lines, "\n")
}

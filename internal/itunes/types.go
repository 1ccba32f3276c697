package itunes

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Item is one decoded search result. Track results and collection
// (album) results share the type; Wrapper tells them apart.
type Item struct {
	ID            int64
	Wrapper       string // "track", "collection", "audiobook", ... (may be empty)
	Kind          string // "song", "feature-movie", "podcast", ...
	Title         string
	Artist        string
	Collection    string
	ArtworkURL60  string
	ArtworkURL100 string
	PreviewURL    string
	Price         *float64 // nil when the store omits a price
	Currency      string
	ReleaseDate   time.Time
	Explicit      bool
}

// HasPrice reports whether the store returned a price, zero included.
func (it *Item) HasPrice() bool {
	return it.Price != nil
}

// FormatPrice renders the price with its currency, or "—" when absent.
func (it *Item) FormatPrice() string {
	if it.Price == nil {
		return "—"
	}
	if *it.Price == 0 {
		return "free"
	}
	amount := humanize.FormatFloat("#,###.##", *it.Price)
	switch it.Currency {
	case "", "USD":
		return "$" + amount
	default:
		return amount + " " + it.Currency
	}
}

// Rating returns "explicit" or "clean".
func (it *Item) Rating() string {
	if it.Explicit {
		return "explicit"
	}
	return "clean"
}

// Year returns the release year.
func (it *Item) Year() int {
	return it.ReleaseDate.Year()
}

// Description is a short multi-line summary of the item.
func (it *Item) Description() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s by %s\n", it.Title, it.Artist)
	fmt.Fprintf(&b, "This is %s piece of art\n", article(it.Rating()))
	fmt.Fprintf(&b, "%s came out on %s\n", it.Title, it.ReleaseDate.Format("January 2, 2006"))
	if it.HasPrice() {
		fmt.Fprintf(&b, "It will cost you %s to buy this.", it.FormatPrice())
	} else {
		b.WriteString("It is not for sale.")
	}
	return b.String()
}

func article(word string) string {
	if word != "" && strings.ContainsRune("aeiou", rune(word[0])) {
		return "an " + word
	}
	return "a " + word
}

// wireItem mirrors the iTunes Search API record. Pointers mark fields
// whose absence must be detected.
type wireItem struct {
	WrapperType    string  `json:"wrapperType"`
	Kind           string  `json:"kind"`
	TrackID        *int64  `json:"trackId"`
	CollectionID   *int64  `json:"collectionId"`
	TrackName      *string `json:"trackName"`
	CollectionName *string `json:"collectionName"`
	ArtistName     *string `json:"artistName"`
	ArtworkURL60   string  `json:"artworkUrl60"`
	ArtworkURL100  string  `json:"artworkUrl100"`
	PreviewURL     string  `json:"previewUrl"`

	TrackPrice      *float64 `json:"trackPrice"`
	CollectionPrice *float64 `json:"collectionPrice"`
	Currency        string   `json:"currency"`

	ReleaseDate *string `json:"releaseDate"`

	// Kept raw so an unexpected type maps to false instead of failing.
	TrackExplicitness      json.RawMessage `json:"trackExplicitness"`
	CollectionExplicitness json.RawMessage `json:"collectionExplicitness"`
}

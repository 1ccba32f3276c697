package itunes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/llehouerou/tunesearch/internal/remote"
	"github.com/llehouerou/tunesearch/internal/search"
)

const (
	wrapperCollection = "collection"
	explicitTag       = "explicit"
)

// Decode parses a search response body. A record missing a required field
// fails the whole decode; records are never dropped.
func Decode(body []byte) ([]Item, error) {
	return decode(context.Background(), body)
}

func decode(ctx context.Context, body []byte) ([]Item, error) {
	records, err := remote.Results(body)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(records))
	for i, raw := range records {
		if ctx.Err() != nil {
			return nil, search.Cancelled()
		}
		item, err := decodeItem(raw)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeItem(raw json.RawMessage) (Item, error) {
	var w wireItem
	if err := json.Unmarshal(raw, &w); err != nil {
		return Item{}, search.DecodeFailure(err.Error())
	}

	item := Item{
		Wrapper:       w.WrapperType,
		Kind:          w.Kind,
		ArtworkURL60:  w.ArtworkURL60,
		ArtworkURL100: w.ArtworkURL100,
		PreviewURL:    w.PreviewURL,
		Currency:      w.Currency,
	}

	// Collections (albums) carry their identity in the collection fields.
	if w.WrapperType == wrapperCollection {
		if w.CollectionID == nil {
			return Item{}, search.MissingField("collectionId")
		}
		if w.CollectionName == nil {
			return Item{}, search.MissingField("collectionName")
		}
		item.ID = *w.CollectionID
		item.Title = *w.CollectionName
		item.Collection = *w.CollectionName
		item.Price = w.CollectionPrice
		item.Explicit = isExplicit(w.CollectionExplicitness)
	} else {
		if w.TrackID == nil {
			return Item{}, search.MissingField("trackId")
		}
		if w.TrackName == nil {
			return Item{}, search.MissingField("trackName")
		}
		item.ID = *w.TrackID
		item.Title = *w.TrackName
		if w.CollectionName != nil {
			item.Collection = *w.CollectionName
		}
		item.Price = w.TrackPrice
		item.Explicit = isExplicit(w.TrackExplicitness)
	}

	if w.ArtistName == nil {
		return Item{}, search.MissingField("artistName")
	}
	item.Artist = *w.ArtistName

	if w.ReleaseDate == nil {
		return Item{}, search.MissingField("releaseDate")
	}
	released, err := remote.ParseTimestamp(*w.ReleaseDate)
	if err != nil {
		return Item{}, err
	}
	item.ReleaseDate = released

	return item, nil
}

// isExplicit maps the explicitness tag to a boolean. Only the exact tag
// "explicit" is true; anything else, including a non-string, is false.
func isExplicit(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var tag string
	if err := json.Unmarshal(raw, &tag); err != nil {
		return false
	}
	return tag == explicitTag
}

package remote

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/llehouerou/tunesearch/internal/search"
)

// Results extracts the records of a `{ "results": [...] }` envelope.
// A missing, null or non-array results field is a decode failure.
func Results(body []byte) ([]json.RawMessage, error) {
	if !json.Valid(body) {
		var v any
		err := json.Unmarshal(body, &v)
		return nil, search.DecodeFailure("invalid json: " + err.Error())
	}

	var env struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		// Valid JSON that is not an object.
		return nil, search.DecodeFailure("missing results")
	}

	raw := bytes.TrimSpace(env.Results)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, search.DecodeFailure("missing results")
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, search.DecodeFailure("missing results")
	}
	return records, nil
}

// timestampLayout is yyyy-MM-dd'T'HH:mm:ss followed by Z or ±hhmm.
const timestampLayout = "2006-01-02T15:04:05Z0700"

// ParseTimestamp parses the fixed-format timestamps used by the catalogs
// and returns them in UTC. Any other shape, including fractional seconds,
// is a "bad date" decode failure.
func ParseTimestamp(s string) (time.Time, error) {
	// 20 bytes with a trailing Z, 24 with a numeric offset.
	switch {
	case len(s) == 20 && s[19] == 'Z':
	case len(s) == 24 && (s[19] == '+' || s[19] == '-'):
	default:
		return time.Time{}, search.DecodeFailure("bad date")
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, search.DecodeFailure("bad date")
	}
	return t.UTC(), nil
}

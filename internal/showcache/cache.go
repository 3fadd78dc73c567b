package showcache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"trackman/internal/media"
)

// ErrCacheIO marks cache read or write failures. Read failures are treated
// as an empty cache by callers; write failures surface to the user.
var ErrCacheIO = errors.New("cache io error")

// Episode is a single cached inspection result.
type Episode struct {
	Filename  string         `json:"filename"`
	MediaInfo media.Snapshot `json:"media_info"`
}

// Season maps episode keys to cached episodes.
type Season map[string]Episode

// ShowCache maps season keys to seasons. It is the persisted document shape.
type ShowCache map[string]Season

// Lookup returns the cached episode for a filename, if present.
func (c ShowCache) Lookup(fileName string) (Episode, bool) {
	seasonKey, episodeKey := episodeKeys(fileName)
	episode, ok := c[seasonKey][episodeKey]
	return episode, ok
}

// Set stores an episode under the keys derived from its filename.
func (c ShowCache) Set(fileName string, episode Episode) {
	seasonKey, episodeKey := episodeKeys(fileName)
	if c[seasonKey] == nil {
		c[seasonKey] = Season{}
	}
	c[seasonKey][episodeKey] = episode
}

// EpisodeCount reports the total number of cached episodes across seasons.
func (c ShowCache) EpisodeCount() int {
	total := 0
	for _, season := range c {
		total += len(season)
	}
	return total
}

// MarshalJSON writes season keys in numeric order.
func (c ShowCache) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sortKeysNumeric(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeEntry(&buf, key, c[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes episode keys in numeric order.
func (s Season) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sortKeysNumeric(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeEntry(&buf, key, s[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeEntry(buf *bytes.Buffer, key string, value any) error {
	keyJSON, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("marshal key %q: %w", key, err)
	}
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %q: %w", key, err)
	}
	buf.Write(keyJSON)
	buf.WriteByte(':')
	buf.Write(valueJSON)
	return nil
}

package showcache

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// NoSeasonKey buckets episodes whose filenames carry no season/episode marker.
const NoSeasonKey = "No Season"

var (
	seasonEpisodePattern = regexp.MustCompile(`[Ss](\d+)[Ee](\d+)`)
	firstNumberPattern   = regexp.MustCompile(`\d+`)
)

// ParseSeasonEpisode extracts season and episode numbers from a filename
// using the case-insensitive S<season>E<episode> convention.
func ParseSeasonEpisode(fileName string) (season, episode int, ok bool) {
	match := seasonEpisodePattern.FindStringSubmatch(fileName)
	if match == nil {
		return 0, 0, false
	}
	season, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, 0, false
	}
	episode, err = strconv.Atoi(match[2])
	if err != nil {
		return 0, 0, false
	}
	return season, episode, true
}

// SeasonKey formats the cache key for a season number.
func SeasonKey(season int) string {
	return fmt.Sprintf("Season %d", season)
}

// EpisodeKey formats the cache key for a season/episode pair.
func EpisodeKey(season, episode int) string {
	return fmt.Sprintf("s%02de%02d", season, episode)
}

// episodeKeys derives the (season key, episode key) pair for a filename.
// Unseasoned files are keyed by their filename under NoSeasonKey.
func episodeKeys(fileName string) (seasonKey, episodeKey string) {
	if season, episode, ok := ParseSeasonEpisode(fileName); ok {
		return SeasonKey(season), EpisodeKey(season, episode)
	}
	return NoSeasonKey, fileName
}

// sortKeysNumeric orders keys by the first number each contains (keys
// without a number sort as 0), breaking ties lexicographically. This keeps
// "s01e09" before "s01e10" and "Season 2" before "Season 10" regardless of
// string ordering.
func sortKeysNumeric(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := firstNumber(keys[i]), firstNumber(keys[j])
		if a != b {
			return a < b
		}
		return keys[i] < keys[j]
	})
}

func firstNumber(key string) int {
	match := firstNumberPattern.FindString(key)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}

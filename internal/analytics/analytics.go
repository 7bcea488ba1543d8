// Package analytics computes journal statistics as pure functions over a
// caller-scoped entry set. Everything here is deterministic for a given set
// and recomputed per request; per-user journals are small enough that an
// incremental counter table is not worth its invalidation bugs.
package analytics

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/inkwell-app/inkwell-backend/internal/models"
)

// minWordLength filters out short filler tokens ("the", "and", "was").
const minWordLength = 4

// DefaultTrendLimit is the number of words returned by WordTrends when the
// caller does not ask for a specific limit.
const DefaultTrendLimit = 10

type DateCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

type CategoryCount struct {
	Category models.Category `json:"category"`
	Count    int             `json:"count"`
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type LengthStats struct {
	AvgLength float64 `json:"avg_length"`
	MaxLength int     `json:"max_length"`
}

type HourCount struct {
	Hour  int `json:"hour"` // 0-23
	Count int `json:"count"`
}

// Heatmap buckets entries by calendar date of creation (the stored
// timestamp truncated to day, no timezone adjustment). Dates without entries
// are not materialized; the presentation layer fills gaps.
func Heatmap(entries []models.JournalEntry) []DateCount {
	counts := make(map[string]int, len(entries))
	for _, entry := range entries {
		date := entry.CreatedAt.Format("2006-01-02")
		counts[date]++
	}

	result := make([]DateCount, 0, len(counts))
	for date, count := range counts {
		result = append(result, DateCount{Date: date, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result
}

// CategoryDistribution counts entries per category. Categories absent from
// the set are omitted.
func CategoryDistribution(entries []models.JournalEntry) []CategoryCount {
	counts := make(map[models.Category]int)
	for _, entry := range entries {
		counts[entry.Category]++
	}

	result := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		result = append(result, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// WordTrends tokenizes entry content into lowercase words, drops tokens
// shorter than four characters, and returns the top limit words by
// frequency. Ties keep first-encountered order (stable sort over insertion
// order).
func WordTrends(entries []models.JournalEntry, limit int) []WordCount {
	if limit <= 0 {
		limit = DefaultTrendLimit
	}

	counts := make(map[string]int)
	var order []string
	for _, entry := range entries {
		for _, word := range tokenize(entry.Content) {
			if utf8.RuneCountInString(word) < minWordLength {
				continue
			}
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	result := make([]WordCount, 0, len(order))
	for _, word := range order {
		result = append(result, WordCount{Word: word, Count: counts[word]})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// EntryLengthStats computes average and maximum word count per entry. An
// empty set yields {0, 0}.
func EntryLengthStats(entries []models.JournalEntry) LengthStats {
	if len(entries) == 0 {
		return LengthStats{}
	}

	total := 0
	max := 0
	for _, entry := range entries {
		length := len(strings.Fields(entry.Content))
		total += length
		if length > max {
			max = length
		}
	}

	return LengthStats{
		AvgLength: float64(total) / float64(len(entries)),
		MaxLength: max,
	}
}

// TimeOfDay buckets entries by the hour of day (0-23) they were created,
// in server-local time. Hours without entries are omitted.
func TimeOfDay(entries []models.JournalEntry) []HourCount {
	counts := make(map[int]int)
	for _, entry := range entries {
		counts[entry.CreatedAt.Local().Hour()]++
	}

	result := make([]HourCount, 0, len(counts))
	for hour, count := range counts {
		result = append(result, HourCount{Hour: hour, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Hour < result[j].Hour })
	return result
}

// tokenize lowercases content and splits on any rune that is not a letter
// or digit, so "hiking," and "Hiking" land in the same bucket.
func tokenize(content string) []string {
	return strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

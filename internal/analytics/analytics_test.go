package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-backend/internal/models"
)

func entryAt(content string, category models.Category, created time.Time) models.JournalEntry {
	return models.JournalEntry{
		Title:     "t",
		Content:   content,
		Category:  category,
		CreatedAt: created,
	}
}

func TestHeatmapBucketsByDay(t *testing.T) {
	day1 := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)
	day2 := time.Date(2026, 3, 12, 22, 30, 0, 0, time.Local)

	entries := []models.JournalEntry{
		entryAt("a", models.CategoryPersonal, day1),
		entryAt("b", models.CategoryWork, day1.Add(6*time.Hour)),
		entryAt("c", models.CategoryWork, day2),
	}

	result := Heatmap(entries)
	require.Len(t, result, 2)
	assert.Equal(t, DateCount{Date: "2026-03-10", Count: 2}, result[0])
	assert.Equal(t, DateCount{Date: "2026-03-12", Count: 1}, result[1])
}

func TestHeatmapEmpty(t *testing.T) {
	assert.Empty(t, Heatmap(nil))
}

func TestCategoryDistributionCountsAndOrder(t *testing.T) {
	now := time.Now()
	entries := []models.JournalEntry{
		entryAt("a", models.CategoryWork, now),
		entryAt("b", models.CategoryWork, now),
		entryAt("c", models.CategoryTravel, now),
	}

	result := CategoryDistribution(entries)
	require.Len(t, result, 2)
	assert.Equal(t, CategoryCount{Category: models.CategoryWork, Count: 2}, result[0])
	assert.Equal(t, CategoryCount{Category: models.CategoryTravel, Count: 1}, result[1])
}

func TestCategoryDistributionTieBreaksAlphabetically(t *testing.T) {
	now := time.Now()
	entries := []models.JournalEntry{
		entryAt("a", models.CategoryWork, now),
		entryAt("b", models.CategoryHealth, now),
	}

	result := CategoryDistribution(entries)
	require.Len(t, result, 2)
	assert.Equal(t, models.CategoryHealth, result[0].Category)
	assert.Equal(t, models.CategoryWork, result[1].Category)
}

func TestCategoryDistributionOmitsAbsentCategories(t *testing.T) {
	result := CategoryDistribution([]models.JournalEntry{
		entryAt("a", models.CategoryFinance, time.Now()),
	})
	require.Len(t, result, 1)
	for _, c := range result {
		assert.NotZero(t, c.Count)
	}
}

func TestWordTrendsFiltersAndCounts(t *testing.T) {
	now := time.Now()
	entries := []models.JournalEntry{
		entryAt("Hiking was great, hiking again soon", models.CategoryTravel, now),
		entryAt("hiking, then rest", models.CategoryTravel, now),
	}

	result := WordTrends(entries, 10)
	require.NotEmpty(t, result)
	// "was" and "then" are shorter than four characters and never appear.
	for _, wc := range result {
		assert.GreaterOrEqual(t, len(wc.Word), 4)
	}
	assert.Equal(t, WordCount{Word: "hiking", Count: 3}, result[0])
}

func TestWordTrendsNormalizesCaseAndPunctuation(t *testing.T) {
	entries := []models.JournalEntry{
		entryAt("Coffee. COFFEE! coffee?", models.CategoryPersonal, time.Now()),
	}

	result := WordTrends(entries, 10)
	require.Len(t, result, 1)
	assert.Equal(t, WordCount{Word: "coffee", Count: 3}, result[0])
}

func TestWordTrendsFiltersShortWordsByRuneCount(t *testing.T) {
	entries := []models.JournalEntry{
		// "мир" is three runes (six bytes) and must be dropped like any
		// other short word; "путешествие" stays.
		entryAt("мир мир мир путешествие", models.CategoryTravel, time.Now()),
	}

	result := WordTrends(entries, 10)
	require.Len(t, result, 1)
	assert.Equal(t, WordCount{Word: "путешествие", Count: 1}, result[0])
}

func TestWordTrendsLimit(t *testing.T) {
	entries := []models.JournalEntry{
		entryAt("alpha alpha alpha bravo bravo charlie", models.CategoryOther, time.Now()),
	}

	result := WordTrends(entries, 2)
	require.Len(t, result, 2)
	assert.Equal(t, "alpha", result[0].Word)
	assert.Equal(t, "bravo", result[1].Word)
}

func TestWordTrendsOrderInvariantForDistinctCounts(t *testing.T) {
	now := time.Now()
	a := entryAt("mountain mountain mountain river river ocean", models.CategoryTravel, now)
	b := entryAt("mountain river forest", models.CategoryTravel, now)

	forward := WordTrends([]models.JournalEntry{a, b}, 10)
	backward := WordTrends([]models.JournalEntry{b, a}, 10)

	require.Equal(t, len(forward), len(backward))
	// mountain=4, river=3, then the singletons.
	assert.Equal(t, WordCount{Word: "mountain", Count: 4}, forward[0])
	assert.Equal(t, WordCount{Word: "river", Count: 3}, forward[1])
	assert.Equal(t, forward[0], backward[0])
	assert.Equal(t, forward[1], backward[1])
}

func TestEntryLengthStatsEmpty(t *testing.T) {
	assert.Equal(t, LengthStats{}, EntryLengthStats(nil))
}

func TestEntryLengthStats(t *testing.T) {
	now := time.Now()
	entries := []models.JournalEntry{
		entryAt("one two three four", models.CategoryPersonal, now),
		entryAt("one two", models.CategoryPersonal, now),
	}

	stats := EntryLengthStats(entries)
	assert.InDelta(t, 3.0, stats.AvgLength, 0.0001)
	assert.Equal(t, 4, stats.MaxLength)
}

func TestTimeOfDayBucketsByHour(t *testing.T) {
	entries := []models.JournalEntry{
		entryAt("a", models.CategoryPersonal, time.Date(2026, 4, 1, 7, 15, 0, 0, time.Local)),
		entryAt("b", models.CategoryPersonal, time.Date(2026, 4, 2, 7, 45, 0, 0, time.Local)),
		entryAt("c", models.CategoryPersonal, time.Date(2026, 4, 1, 22, 5, 0, 0, time.Local)),
	}

	result := TimeOfDay(entries)
	require.Len(t, result, 2)
	assert.Equal(t, HourCount{Hour: 7, Count: 2}, result[0])
	assert.Equal(t, HourCount{Hour: 22, Count: 1}, result[1])
}

func TestTimeOfDayEmpty(t *testing.T) {
	assert.Empty(t, TimeOfDay(nil))
}

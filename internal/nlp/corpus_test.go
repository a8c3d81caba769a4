package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCorpusEmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
	}{
		{name: "nil slice", texts: nil},
		{name: "blank texts only", texts: []string{"", "   ", "\n\t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAnalyzer().AnalyzeCorpus(tt.texts)

			assert.Zero(t, got.TextCount)
			assert.Zero(t, got.AvgQualityScore)
			assert.NotNil(t, got.TrendingKeywords)
			assert.Empty(t, got.TrendingKeywords)
			assert.NotNil(t, got.Recommendations)
			assert.Empty(t, got.Recommendations)
		})
	}
}

func TestAnalyzeCorpusAggregates(t *testing.T) {
	a := NewAnalyzer()
	texts := []string{
		"Rainfall measurements across coastal stations. Values are monthly aggregates!",
		"Comprehensive longitudinal measurements of atmospheric particulate concentrations collected hourly.",
		"   ", // skipped, does not count
	}

	got := a.AnalyzeCorpus(texts)
	require.Equal(t, 2, got.TextCount)

	first := a.Analyze(texts[0])
	second := a.Analyze(texts[1])
	assert.InDelta(t, (first.QualityScore+second.QualityScore)/2, got.AvgQualityScore, 1e-9)
	assert.InDelta(t, (first.VocabularyRichness+second.VocabularyRichness)/2, got.AvgVocabRichness, 1e-9)
	assert.InDelta(t, (first.AvgWordsPerSentence+second.AvgWordsPerSentence)/2, got.AvgWordsPerSentence, 1e-9)

	buckets := got.QualityBuckets.High + got.QualityBuckets.Medium + got.QualityBuckets.Low
	assert.Equal(t, got.TextCount, buckets)
}

func TestAnalyzeCorpusKeywordFiltering(t *testing.T) {
	got := NewAnalyzer().AnalyzeCorpus([]string{
		"Rainfall rainfall rainfall covers the station grid. The cat sat on ab12.",
	})

	assert.Contains(t, got.TrendingKeywords, "rainfall")
	assert.NotContains(t, got.TrendingKeywords, "the")  // stopword
	assert.NotContains(t, got.TrendingKeywords, "cat")  // under four chars
	assert.NotContains(t, got.TrendingKeywords, "ab12") // non-alphabetic
	assert.Equal(t, "rainfall", got.TrendingKeywords[0])
}

func TestTopKeywords(t *testing.T) {
	freq := map[string]int{
		"rainfall":    5,
		"humidity":    5,
		"temperature": 3,
		"pressure":    2,
		"station":     2,
		"coastal":     1,
		"monthly":     1,
	}

	got := topKeywords(freq, maxTrendingKeywords)

	require.Len(t, got, 6)
	// frequency descending, alphabetical within ties
	assert.Equal(t, []string{"humidity", "rainfall", "temperature", "pressure", "station", "coastal"}, got)
}

func TestCorpusRecommendations(t *testing.T) {
	lowQuality := CorpusInsights{AvgQualityScore: 30, AvgVocabRichness: 0.9}
	assert.Contains(t, corpusRecommendations(lowQuality), "Invest in documentation standardization")

	repetitive := CorpusInsights{AvgQualityScore: 80, AvgVocabRichness: 0.2}
	assert.Contains(t, corpusRecommendations(repetitive),
		"Reduce boilerplate and repetition in dataset descriptions")

	bottomHeavy := CorpusInsights{AvgQualityScore: 60, AvgVocabRichness: 0.8}
	bottomHeavy.QualityBuckets.Low = 3
	bottomHeavy.QualityBuckets.High = 1
	assert.Contains(t, corpusRecommendations(bottomHeavy), "Review the lowest-scoring descriptions first")

	healthy := CorpusInsights{AvgQualityScore: 75, AvgVocabRichness: 0.8}
	healthy.QualityBuckets.High = 2
	got := corpusRecommendations(healthy)
	require.Len(t, got, 1)
	assert.Equal(t, "Documentation quality is healthy, maintain current standards", got[0])
}

// Package nlp provides lightweight text-quality analysis used by the
// insight synthesizer's documentation rules. It relies on simple
// lexical statistics only; no external models.
package nlp

import (
	"regexp"
	"strings"
)

var (
	wordRe     = regexp.MustCompile(`\b\w+\b`)
	sentenceRe = regexp.MustCompile(`[.!?]+`)
)

// stopWords filters common English function words from vocabulary
// richness so short connective-heavy text is not rewarded.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"the a an and or but in on at to for of with by is are was were be been " +
			"have has had do does did will would could should may might must can " +
			"this that these those i you he she it we they me him her us them") {
		stopWords[w] = struct{}{}
	}
}

// TextAnalysis holds the quality metrics for one text.
type TextAnalysis struct {
	WordCount           int     `json:"word_count"`
	SentenceCount       int     `json:"sentence_count"`
	CharCount           int     `json:"char_count"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
	AvgCharsPerWord     float64 `json:"avg_chars_per_word"`
	VocabularyRichness  float64 `json:"vocabulary_richness"`
	ReadingEase         float64 `json:"reading_ease_estimate"`
	SemanticComplexity  float64 `json:"semantic_complexity"`
	// QualityScore is in [0,100].
	QualityScore float64 `json:"quality_score"`
}

// Analyzer scores free text for documentation quality.
type Analyzer struct{}

// NewAnalyzer creates an analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze computes lexical quality metrics for a single text. Empty or
// whitespace-only input yields a zeroed analysis, not an error.
func (a *Analyzer) Analyze(text string) TextAnalysis {
	if strings.TrimSpace(text) == "" {
		return TextAnalysis{}
	}

	words := wordRe.FindAllString(strings.ToLower(text), -1)
	sentenceCount := 0
	for _, s := range sentenceRe.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentenceCount++
		}
	}

	wordCount := len(words)
	if wordCount == 0 {
		return TextAnalysis{CharCount: len(text), SentenceCount: sentenceCount}
	}

	charsInWords := 0
	for _, w := range words {
		charsInWords += len(w)
	}

	avgWordsPerSentence := 0.0
	if sentenceCount > 0 {
		avgWordsPerSentence = float64(wordCount) / float64(sentenceCount)
	}
	avgCharsPerWord := float64(charsInWords) / float64(wordCount)

	readingEase := 100 - avgWordsPerSentence*2 - avgCharsPerWord*5
	if readingEase < 0 {
		readingEase = 0
	}

	richness := vocabularyRichness(words)
	semantic := richness * avgCharsPerWord / 10

	quality := richness*40 + min100(readingEase)*0.3 + semantic*30
	if quality > 100 {
		quality = 100
	}
	if quality < 0 {
		quality = 0
	}

	return TextAnalysis{
		WordCount:           wordCount,
		SentenceCount:       sentenceCount,
		CharCount:           len(text),
		AvgWordsPerSentence: avgWordsPerSentence,
		AvgCharsPerWord:     avgCharsPerWord,
		VocabularyRichness:  richness,
		ReadingEase:         readingEase,
		SemanticComplexity:  semantic,
		QualityScore:        quality,
	}
}

// vocabularyRichness is the type/token ratio over stopword-filtered
// alphabetic words; 0 when nothing is left after filtering.
func vocabularyRichness(words []string) float64 {
	filtered := 0
	unique := make(map[string]struct{})
	for _, w := range words {
		if !isAlpha(w) {
			continue
		}
		if _, skip := stopWords[w]; skip {
			continue
		}
		filtered++
		unique[w] = struct{}{}
	}
	if filtered == 0 {
		return 0
	}
	return float64(len(unique)) / float64(filtered)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}

func min100(x float64) float64 {
	if x > 100 {
		return 100
	}
	return x
}

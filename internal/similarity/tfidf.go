// Package similarity provides a deterministic text-to-vector provider used by
// stage-1 scoring. Texts are embedded as sparse TF-IDF vectors over a
// vocabulary fitted once per corpus; the fitted model is immutable and safe
// for concurrent reads.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Analyzer selects the tokenization strategy for a model.
type Analyzer int

const (
	// AnalyzerWord tokenizes on word boundaries and drops English stop words.
	AnalyzerWord Analyzer = iota
	// AnalyzerCharWB produces character n-grams within word boundaries,
	// which is more forgiving for skill names ("PostgreSQL" vs "postgres").
	AnalyzerCharWB
)

// Options control vocabulary construction.
type Options struct {
	Analyzer    Analyzer
	MaxFeatures int
	NGramMin    int // char analyzer only
	NGramMax    int // char analyzer only
}

// WordOptions mirrors the description vectorizer: word tokens, stop words
// removed, vocabulary capped at 384 features.
func WordOptions() Options {
	return Options{Analyzer: AnalyzerWord, MaxFeatures: 384}
}

// CharOptions mirrors the skill vectorizer: 3-5 char n-grams within word
// boundaries, vocabulary capped at 4096 features.
func CharOptions() Options {
	return Options{Analyzer: AnalyzerCharWB, MaxFeatures: 4096, NGramMin: 3, NGramMax: 5}
}

// Vector is a sparse TF-IDF vector keyed by vocabulary index.
type Vector map[int]float64

// Model is a fitted TF-IDF vocabulary. Immutable after Fit.
type Model struct {
	opts  Options
	vocab map[string]int
	idf   []float64
}

// Fit builds a model from the corpus. Vocabulary is selected by total term
// frequency with a lexicographic tie-break so fitting is deterministic for
// identical input. An empty corpus yields a model whose vectors are all nil.
func Fit(corpus []string, opts Options) *Model {
	termCount := make(map[string]int)
	docFreq := make(map[string]int)
	docs := 0
	for _, text := range corpus {
		terms := analyze(text, opts)
		if len(terms) == 0 {
			continue
		}
		docs++
		seen := make(map[string]bool, len(terms))
		for _, t := range terms {
			termCount[t]++
			if !seen[t] {
				seen[t] = true
				docFreq[t]++
			}
		}
	}

	type termStat struct {
		term  string
		count int
	}
	stats := make([]termStat, 0, len(termCount))
	for t, c := range termCount {
		stats = append(stats, termStat{t, c})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].term < stats[j].term
	})
	if opts.MaxFeatures > 0 && len(stats) > opts.MaxFeatures {
		stats = stats[:opts.MaxFeatures]
	}

	m := &Model{
		opts:  opts,
		vocab: make(map[string]int, len(stats)),
		idf:   make([]float64, len(stats)),
	}
	// Index assignment is alphabetical within the selected vocabulary,
	// matching the deterministic ordering of the fit.
	sort.Slice(stats, func(i, j int) bool { return stats[i].term < stats[j].term })
	for i, s := range stats {
		m.vocab[s.term] = i
		// Smoothed IDF so terms present in every document still contribute.
		m.idf[i] = math.Log(float64(1+docs)/float64(1+docFreq[s.term])) + 1
	}
	return m
}

// Fitted reports whether the model has a non-empty vocabulary.
func (m *Model) Fitted() bool {
	return m != nil && len(m.vocab) > 0
}

// Vector embeds text into the fitted vocabulary. Returns nil when the text
// shares no terms with the vocabulary (callers treat that as similarity 0).
// The result is L2-normalized.
func (m *Model) Vector(text string) Vector {
	if !m.Fitted() {
		return nil
	}
	counts := make(map[int]float64)
	for _, t := range analyze(text, m.opts) {
		if idx, ok := m.vocab[t]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	var norm float64
	for idx := range counts {
		counts[idx] *= m.idf[idx]
		norm += counts[idx] * counts[idx]
	}
	norm = math.Sqrt(norm)
	for idx := range counts {
		counts[idx] /= norm
	}
	return counts
}

// Cosine computes cosine similarity between two sparse vectors. Either side
// being nil or zero-length yields 0.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// Iterate the smaller map.
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot, na, nb float64
	for idx, av := range a {
		na += av * av
		if bv, ok := b[idx]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func analyze(text string, opts Options) []string {
	if opts.Analyzer == AnalyzerCharWB {
		return charNGrams(text, opts.NGramMin, opts.NGramMax)
	}
	return wordTokens(text)
}

func wordTokens(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// charNGrams pads each word with spaces and emits n-grams that never cross a
// word boundary, so short grams still anchor to word edges.
func charNGrams(text string, min, max int) []string {
	if min <= 0 {
		min = 3
	}
	if max < min {
		max = min
	}
	var grams []string
	for _, word := range strings.Fields(strings.ToLower(text)) {
		padded := " " + word + " "
		runes := []rune(padded)
		for n := min; n <= max; n++ {
			if len(runes) < n {
				continue
			}
			for i := 0; i+n <= len(runes); i++ {
				grams = append(grams, string(runes[i:i+n]))
			}
		}
	}
	return grams
}

var stopWords = func() map[string]bool {
	list := []string{
		"a", "about", "above", "after", "again", "all", "am", "an", "and",
		"any", "are", "as", "at", "be", "because", "been", "before", "being",
		"below", "between", "both", "but", "by", "can", "did", "do", "does",
		"doing", "down", "during", "each", "few", "for", "from", "further",
		"had", "has", "have", "having", "he", "her", "here", "hers", "him",
		"his", "how", "if", "in", "into", "is", "it", "its", "just", "me",
		"more", "most", "my", "no", "nor", "not", "now", "of", "off", "on",
		"once", "only", "or", "other", "our", "out", "over", "own", "same",
		"she", "should", "so", "some", "such", "than", "that", "the", "their",
		"them", "then", "there", "these", "they", "this", "those", "through",
		"to", "too", "under", "until", "up", "very", "was", "we", "were",
		"what", "when", "where", "which", "while", "who", "whom", "why",
		"will", "with", "you", "your", "yours",
	}
	m := make(map[string]bool, len(list))
	for _, w := range list {
		m[w] = true
	}
	return m
}()

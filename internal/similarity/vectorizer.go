// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// VectorizerConfig configures TF-IDF vectorization.
type VectorizerConfig struct {
	// MaxFeatures caps the vocabulary, keeping the terms most frequent
	// across the corpus. 0 means unlimited.
	MaxFeatures int

	// StopWords are excluded from the vocabulary. nil selects
	// DefaultStopWords; an empty non-nil slice disables filtering.
	StopWords []string

	// MinDF drops terms appearing in fewer than MinDF documents.
	// Default 1 (keep everything).
	MinDF int

	// MaxDF drops terms appearing in more than this fraction of
	// documents, removing corpus-specific noise words. Default 1.0.
	MaxDF float64

	// Bigrams adds adjacent word pairs to the vocabulary alongside
	// unigrams, so multi-word tags like "Time Travel" can match as a
	// phrase.
	Bigrams bool
}

// Vectorizer turns a text corpus into L2-normalized TF-IDF vectors.
//
// Term frequency is the raw in-document count; inverse document
// frequency uses the smoothed form
//
//	idf(t) = ln((1+n) / (1+df(t))) + 1
//
// which never zeroes out a term entirely and never divides by zero.
// Each document vector is L2-normalized after weighting, so cosine
// similarity between two documents reduces to their dot product.
//
// A Vectorizer is single-use: FitTransform learns the vocabulary and
// idf weights from the corpus it is given and returns that corpus's
// vectors in one step. There is no separate transform path because the
// similarity build always vectorizes the full catalog at once.
type Vectorizer struct {
	maxFeatures int
	stopWords   map[string]struct{}
	minDF       int
	maxDF       float64
	bigrams     bool

	vocabulary map[string]int
	idf        []float64
	terms      []string
}

// NewVectorizer creates a vectorizer, applying defaults for zero
// config values.
func NewVectorizer(cfg VectorizerConfig) *Vectorizer {
	if cfg.MinDF <= 0 {
		cfg.MinDF = 1
	}
	if cfg.MaxDF <= 0 || cfg.MaxDF > 1 {
		cfg.MaxDF = 1.0
	}

	words := cfg.StopWords
	if words == nil {
		words = DefaultStopWords
	}
	stopWords := make(map[string]struct{}, len(words))
	for _, w := range words {
		stopWords[strings.ToLower(w)] = struct{}{}
	}

	return &Vectorizer{
		maxFeatures: cfg.MaxFeatures,
		stopWords:   stopWords,
		minDF:       cfg.MinDF,
		maxDF:       cfg.MaxDF,
		bigrams:     cfg.Bigrams,
	}
}

// FitTransform learns the vocabulary from the corpus and returns one
// L2-normalized TF-IDF vector per document, aligned to the corpus
// order. A document with no in-vocabulary terms yields a zero vector.
func (v *Vectorizer) FitTransform(corpus []string) [][]float64 {
	n := len(corpus)
	docs := make([][]string, n)
	for i, text := range corpus {
		docs[i] = v.tokenize(text)
	}

	// Document frequency and total corpus frequency per term.
	df := make(map[string]int)
	totalFreq := make(map[string]int)
	for _, tokens := range docs {
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			totalFreq[tok]++
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				df[tok]++
			}
		}
	}

	maxDocs := v.maxDF * float64(n)
	candidates := make([]string, 0, len(df))
	for term, count := range df {
		if count < v.minDF {
			continue
		}
		if float64(count) > maxDocs {
			continue
		}
		candidates = append(candidates, term)
	}

	// Vocabulary cap keeps the corpus-wide most frequent terms; ties
	// resolve alphabetically so runs are reproducible.
	if v.maxFeatures > 0 && len(candidates) > v.maxFeatures {
		sort.Slice(candidates, func(i, j int) bool {
			fi, fj := totalFreq[candidates[i]], totalFreq[candidates[j]]
			if fi != fj {
				return fi > fj
			}
			return candidates[i] < candidates[j]
		})
		candidates = candidates[:v.maxFeatures]
	}
	sort.Strings(candidates)

	v.terms = candidates
	v.vocabulary = make(map[string]int, len(candidates))
	for i, term := range candidates {
		v.vocabulary[term] = i
	}

	v.idf = make([]float64, len(candidates))
	for i, term := range candidates {
		v.idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	vectors := make([][]float64, n)
	for i, tokens := range docs {
		vec := make([]float64, len(candidates))
		for _, tok := range tokens {
			if col, ok := v.vocabulary[tok]; ok {
				vec[col]++
			}
		}

		var norm float64
		for col := range vec {
			vec[col] *= v.idf[col]
			norm += vec[col] * vec[col]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for col := range vec {
				vec[col] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// VocabularySize returns the number of terms learned by FitTransform.
func (v *Vectorizer) VocabularySize() int {
	return len(v.terms)
}

// Terms returns the learned vocabulary in column order.
func (v *Vectorizer) Terms() []string {
	return v.terms
}

// tokenize lower-cases the text and emits maximal runs of letters and
// digits at least two characters long, minus stop words. With bigrams
// enabled, adjacent surviving tokens are also emitted as "a b" pairs.
func (v *Vectorizer) tokenize(text string) []string {
	var tokens []string
	var current []rune

	flush := func() {
		if len(current) >= 2 {
			tok := string(current)
			if _, stop := v.stopWords[tok]; !stop {
				tokens = append(tokens, tok)
			}
		}
		current = current[:0]
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current = append(current, r)
		} else {
			flush()
		}
	}
	flush()

	if v.bigrams {
		unigrams := tokens
		for i := 0; i+1 < len(unigrams); i++ {
			tokens = append(tokens, unigrams[i]+" "+unigrams[i+1])
		}
	}
	return tokens
}

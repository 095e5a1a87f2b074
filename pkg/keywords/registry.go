// Package keywords provides a centralized registry of categorized phrase
// vocabularies used by the lexical and psychological scoring layers.
//
// Design principles:
// - BUILD ONCE: vocabularies are assembled at registry construction, not per scan
// - CATEGORIZED: each vocabulary is addressed by a stable category key
// - INJECTABLE: callers receive a *Registry; nothing reads ambient globals,
//   which keeps every scoring function testable in isolation
package keywords

import (
	"sort"
	"strings"
	"sync"
)

// Category identifies a named phrase vocabulary.
type Category string

const (
	// Threat-intent vocabularies consumed by the tiered chat analyzer.
	CategorySpam       Category = "spam"
	CategorySextortion Category = "sextortion"
	CategoryTechLure   Category = "tech_lure"

	// Profile-side vocabulary consumed by the profile risk scorer.
	CategoryBioLure Category = "bio_lure"

	// Manipulation-tactic vocabularies consumed by the psychological detector.
	CategoryLoveBombing Category = "love_bombing"
	CategoryUrgency     Category = "urgency"
	CategorySecrecy     Category = "secrecy"

	// Advisory vocabularies consumed by the dialogue-side heuristics.
	CategoryAIDisclaimer Category = "ai_disclaimer"
	CategoryHumanFiller  Category = "human_filler"
)

// Registry holds all phrase vocabularies, keyed by category. Phrases are
// stored lowercase in insertion order; match output preserves that order so
// repeated scans of the same text produce identical results.
type Registry struct {
	mu   sync.RWMutex
	sets map[Category][]string
}

// NewRegistry builds a registry populated with the built-in vocabularies.
func NewRegistry() *Registry {
	r := &Registry{sets: make(map[Category][]string)}
	for cat, phrases := range builtinVocabularies() {
		r.register(cat, phrases)
	}
	return r
}

// register stores a normalized (lowercased, deduplicated) copy of phrases.
func (r *Registry) register(cat Category, phrases []string) {
	seen := make(map[string]bool, len(phrases))
	normalized := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		normalized = append(normalized, p)
	}
	r.mu.Lock()
	r.sets[cat] = normalized
	r.mu.Unlock()
}

// Replace swaps the vocabulary for a category. Used by the YAML override
// loader; replacing with an empty list removes the category entirely.
func (r *Registry) Replace(cat Category, phrases []string) {
	if len(phrases) == 0 {
		r.mu.Lock()
		delete(r.sets, cat)
		r.mu.Unlock()
		return
	}
	r.register(cat, phrases)
}

// Phrases returns a copy of the vocabulary for a category.
// Returns an empty slice if the category is unknown (never nil).
func (r *Registry) Phrases(cat Category) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.sets[cat]))
	copy(out, r.sets[cat])
	return out
}

// FindAll returns every phrase of the category present in text as a plain
// substring, in vocabulary order. Matching is deliberately not word-boundary
// aware ("ip" matches inside "ship"): the vocabularies are tuned for recall
// and the downstream confidence tiers absorb the noise. Callers pass
// lowercased text; phrases are stored lowercase.
func (r *Registry) FindAll(cat Category, loweredText string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var hits []string
	for _, phrase := range r.sets[cat] {
		if strings.Contains(loweredText, phrase) {
			hits = append(hits, phrase)
		}
	}
	return hits
}

// Contains reports whether any phrase of the category appears in text.
// Early-exit variant of FindAll for boolean rules.
func (r *Registry) Contains(cat Category, loweredText string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, phrase := range r.sets[cat] {
		if strings.Contains(loweredText, phrase) {
			return true
		}
	}
	return false
}

// Categories returns the registered category keys, sorted for stable output.
func (r *Registry) Categories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cats := make([]Category, 0, len(r.sets))
	for cat := range r.sets {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Size returns the number of phrases registered for a category.
func (r *Registry) Size(cat Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sets[cat])
}

// Package analyze scores text for sentiment and extracts keywords.
//
// The Analyzer is a pure function of its input: no side effects, no state
// beyond the loaded lexicon and stopword set. Entity extraction is a
// documented stub pending a real NER backend; it always returns the fixed
// empty-category map so downstream storage keeps the field.
package analyze

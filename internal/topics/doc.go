// Package topics canonicalizes the free-text topic labels scrapers collect
// into a controlled vocabulary. The mapping file lists canonical terms with
// their raw synonyms; normalization reverses it, collapses whitespace, and
// reports terms with no mapping so the vocabulary can grow over time.
package topics

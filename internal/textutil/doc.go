// Package textutil derives filesystem-safe names from human-entered titles.
//
// Slug folds case with Unicode rules, spells out ampersands, treats hyphens as
// word breaks, drops punctuation and joins words with underscores. Letters and
// digits from any script survive, so non-Latin titles still produce readable
// file names.
package textutil

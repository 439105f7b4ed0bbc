// Package domain holds the values proofcheck passes between its layers.
//
// Comparison side: a CompareRequest names two documents with an optional
// ROI and rotation each. Every compared page yields a PageComparison with
// its DifferenceRegions and one result per signal (text, structural, colour,
// features). A signal that could not run carries an explicit unavailable
// marker instead of a zero score, and ComparisonRun collects the pages with
// the indexes that were skipped.
//
// Locator side: a Rule is one row of the rule sheet. Locating marks it found
// with the SearchPhase that matched and a Location whose Rect stays
// unresolved until asked for; RectResolution records whether that later
// lookup succeeded.
//
// The package imports only the standard library.
package domain

// Package vision implements the image comparators used for each page pair.
//
// All routines are pure Go on top of disintegration/imaging:
//
//   - Normalize / Canvases: bring two pages to a shared width and canvas
//   - DetectDifferences: thresholded difference regions with an overlay
//   - SSIM: structural similarity score and colourised dissimilarity map
//   - CompareColors: per-channel histogram correlation
//
// Coordinates are canvas pixels with the origin at the top-left corner.
package vision

// Package ocr extracts page text through a preprocessing pipeline and an
// ordered chain of OCR backends.
//
// Preprocessing runs in a fixed order: grayscale, upscale, denoise,
// local contrast enhancement, adaptive binarisation and deskew. Backends
// are tried in order; the first one producing non-empty text wins.
// When none does, the result is an explicit absence.
package ocr

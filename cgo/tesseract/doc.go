// Package tesseract provides an in-process OCR backend using the
// tesseract C++ API through gosseract.
// It implements the driven.OCRBackend interface.
//
// Build requires:
//   - libtesseract and libleptonica development files
//   - the cgo and tesseract build tags (go build -tags tesseract)
package tesseract

// Package cgo provides CGO bindings for native libraries.
// This package isolates all CGO code from the pure Go core.
//
// Sub-packages:
//   - fitz: MuPDF document opener (go-fitz), built with cgo
//   - opencv: ORB feature matcher (gocv), built with the opencv tag
//   - tesseract: OCR backend (gosseract), built with the tesseract tag
//
// Every sub-package has a stub used when its native library is not
// compiled in. Stubs report Available=false from Capability.
package cgo

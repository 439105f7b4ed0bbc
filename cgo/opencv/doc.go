// Package opencv provides an ORB feature matcher backed by OpenCV.
// It implements the driven.FeatureMatcher interface.
//
// Build requires:
//   - OpenCV 4 development files
//   - the cgo and opencv build tags (go build -tags opencv)
package opencv

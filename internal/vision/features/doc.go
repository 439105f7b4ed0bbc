// Package features implements an ORB-style keypoint matcher in pure Go.
//
// Keypoints are FAST-9 corners found on a small scale pyramid and ranked
// by Harris response. Each keypoint gets an intensity-centroid orientation
// and a 256-bit rotated BRIEF descriptor. Descriptors are matched by
// brute-force Hamming distance with a nearest/second-nearest ratio test.
package features

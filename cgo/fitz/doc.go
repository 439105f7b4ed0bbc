// Package fitz opens PDF documents in process with MuPDF through
// go-fitz. It implements the driven.DocumentOpener interface.
//
// Build requires cgo. go-fitz ships static MuPDF libraries for the
// common platforms.
package fitz

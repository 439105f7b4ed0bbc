// Package driven declares what the core services need from the outside:
// documents and their openers, OCR backends, the feature matcher, locator
// phases, rule sheet readers, history storage, configuration and process
// execution.
//
// Services take the required ports in their constructors. Optional ports
// (RunStore, ReportExporter, LockChecker, the OCR extractor, FileWatcher) are
// attached with setters or may be nil; the service then skips that step or
// reports the signal as unavailable.
package driven

// Package services runs the comparison and locator workflows behind the
// driving ports.
//
//   - CompareService: renders both documents and scores each page pair
//   - LocateService: reads a rule table and runs the locator phases
//   - HistoryService: lists and deletes recorded runs
//   - SettingsService: maps dot keys onto domain.Settings
//   - CapabilityService: reports which backends this build can use
//
// Services depend only on domain types and ports. Native code lives in
// adapters and cgo/.
package services

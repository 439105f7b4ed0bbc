package domain

// CapabilityKind groups optional backends.
type CapabilityKind string

// Capability kinds.
const (
	CapabilityDocument CapabilityKind = "document"
	CapabilityOCR      CapabilityKind = "ocr"
	CapabilityFeatures CapabilityKind = "features"
	CapabilityRules    CapabilityKind = "rules"
)

// CapabilityStatus reports whether an optional backend can be used.
// Resolved once at startup and shown by the doctor command.
type CapabilityStatus struct {
	Name      string         `json:"name"`
	Kind      CapabilityKind `json:"kind"`
	Available bool           `json:"available"`

	// Detail is a version string or the reason it is unavailable.
	Detail string `json:"detail,omitempty"`

	// Install explains how to make it available.
	Install string `json:"install,omitempty"`
}

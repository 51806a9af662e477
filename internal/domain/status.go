package domain

// Status classifies the migration state of a repository or artifact.
// The zero value is StatusUnknown, which is distinct from all four
// concrete states and models "unknown provenance, unknown status".
type Status string

const (
	StatusUnknown      Status = ""
	StatusNotPorted    Status = "not_ported"
	StatusBlocked      Status = "blocked"
	StatusExperimental Status = "experimental"
	StatusUpstream     Status = "upstream"
)

// ParseStatus converts a raw string into one of the four concrete status
// values. Anything else, including the empty string, is rejected with a
// ValidationError.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNotPorted, StatusBlocked, StatusExperimental, StatusUpstream:
		return Status(s), nil
	}
	return StatusUnknown, Validationf("invalid status %q (valid: not_ported, blocked, experimental, upstream)", s)
}

// Known reports whether the status is one of the four concrete values.
func (s Status) Known() bool {
	return s != StatusUnknown
}

// Indicator returns the one-character marker used in rendered reports.
func (s Status) Indicator() string {
	switch s {
	case StatusNotPorted:
		return "X"
	case StatusExperimental:
		return "E"
	case StatusUpstream:
		return "✓"
	case StatusBlocked:
		return "B"
	}
	return "?"
}

// String renders StatusUnknown as "unknown" for display purposes.
func (s Status) String() string {
	if !s.Known() {
		return "unknown"
	}
	return string(s)
}

// UnmarshalJSON rejects status values outside the closed enumeration.
func (s *Status) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = StatusUnknown
		return nil
	}
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

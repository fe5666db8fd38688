package domain

import "strconv"

func (s Severity) String() string {
	return strconv.Itoa(int(s))
}

// SeverityRange is an inclusive severity window.
type SeverityRange struct {
	Min Severity
	Max Severity
}

func (r SeverityRange) Contains(s Severity) bool {
	return s >= r.Min && s <= r.Max
}

func (r SeverityRange) Valid() bool {
	return r.Min.Valid() && r.Max.Valid() && r.Min <= r.Max
}

func (r SeverityRange) String() string {
	if r.Min == r.Max {
		return r.Min.String()
	}
	return r.Min.String() + "-" + r.Max.String()
}

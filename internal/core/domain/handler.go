package domain

const (
	HandlerKindTier  = "tier"
	HandlerKindRange = "range"
)

// HandlerDescriptor declares a handler the way configuration describes it,
// before the factory turns it into something that can serve requests.
type HandlerDescriptor struct {
	Name       string
	Kind       string
	Label      string
	Severities []Severity
	Range      SeverityRange
}

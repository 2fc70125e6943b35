package lint

import "github.com/yaklabco/gocbs/pkg/config"

// BaseRule provides the metadata half of the Rule interface.
// Embed it in rule implementations and add Check.
type BaseRule struct {
	id       string
	name     string
	desc     string
	severity config.Severity
	enabled  bool
}

// NewBaseRule creates a BaseRule that is enabled by default.
func NewBaseRule(id, name, desc string, severity config.Severity) BaseRule {
	return BaseRule{id: id, name: name, desc: desc, severity: severity, enabled: true}
}

func (r *BaseRule) ID() string                       { return r.id }
func (r *BaseRule) Name() string                     { return r.name }
func (r *BaseRule) Description() string              { return r.desc }
func (r *BaseRule) DefaultEnabled() bool             { return r.enabled }
func (r *BaseRule) DefaultSeverity() config.Severity { return r.severity }

// disabledByDefault turns the rule off unless configuration enables it.
func (r BaseRule) disabledByDefault() BaseRule {
	r.enabled = false
	return r
}

package lint

import "github.com/yaklabco/gocbs/pkg/config"

// ResolvedRule pairs a Rule with its effective settings.
type ResolvedRule struct {
	Rule     Rule
	Enabled  bool
	Severity config.Severity
}

// ResolveRules returns the enabled rules with configuration overrides
// applied. Rule keys in cfg may be IDs or names.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	overrides := make(map[string]config.RuleConfig)
	if cfg != nil {
		for key, rc := range cfg.Rules {
			if id, _, ok := registry.Resolve(key); ok {
				overrides[id] = rc
			}
		}
	}

	var resolved []ResolvedRule
	for _, rule := range registry.Rules() {
		rr := ResolvedRule{
			Rule:     rule,
			Enabled:  rule.DefaultEnabled(),
			Severity: rule.DefaultSeverity(),
		}
		if rc, ok := overrides[rule.ID()]; ok {
			if rc.Enabled != nil {
				rr.Enabled = *rc.Enabled
			}
			if rc.Severity != nil {
				rr.Severity = config.Severity(*rc.Severity)
			}
		}
		if rr.Enabled {
			resolved = append(resolved, rr)
		}
	}
	return resolved
}

package policy

import "fmt"

// OpenURLPolicy decides whether an OpenUrl action may run. An empty
// whitelist allows every URL; RequireUserInteraction additionally demands
// that the triggering stimulus was a pointer event in the current
// evaluation cycle.
type OpenURLPolicy struct {
	whitelist              *Whitelist
	requireUserInteraction bool
}

// NewOpenURLPolicy builds a policy from patterns. Invalid patterns fail
// construction so a half-built policy never gates anything.
func NewOpenURLPolicy(patterns []string, requireUserInteraction bool) (*OpenURLPolicy, error) {
	wl := NewWhitelist()
	for _, pattern := range patterns {
		if err := wl.Add(pattern); err != nil {
			return nil, err
		}
	}
	return &OpenURLPolicy{whitelist: wl, requireUserInteraction: requireUserInteraction}, nil
}

// DefaultOpenURLPolicy requires user interaction and allows every URL.
func DefaultOpenURLPolicy() *OpenURLPolicy {
	policy, _ := NewOpenURLPolicy(nil, true)
	return policy
}

// RequiresUserInteraction reports the interaction requirement.
func (p *OpenURLPolicy) RequiresUserInteraction() bool {
	return p.requireUserInteraction
}

// Check returns nil when the action may run, or the denial reason.
// userInteraction reports whether the current stimulus is a pointer event.
func (p *OpenURLPolicy) Check(url string, userInteraction bool) error {
	if p.whitelist.Len() > 0 {
		allowed, err := p.whitelist.IsAllowed(url)
		if err != nil {
			return fmt.Errorf("OpenUrl denied: %w", err)
		}
		if !allowed {
			return fmt.Errorf("OpenUrl denied: %q is not whitelisted", url)
		}
	}
	if p.requireUserInteraction && !userInteraction {
		return fmt.Errorf("OpenUrl denied: %q requires user interaction", url)
	}
	return nil
}

package validator

// Registry maps rule keys to Rule implementations.
type Registry struct {
	rules map[string]Rule
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule to the registry. Re-registering a key replaces the
// rule but keeps its original position.
func (r *Registry) Register(rule Rule) {
	key := rule.RuleKey()
	if _, ok := r.rules[key]; !ok {
		r.order = append(r.order, key)
	}
	r.rules[key] = rule
}

// Get returns the rule for a given key, or nil if not found.
func (r *Registry) Get(key string) Rule {
	return r.rules[key]
}

// All returns all registered rules in registration order.
func (r *Registry) All() []Rule {
	out := make([]Rule, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.rules[key])
	}
	return out
}

package keymap

// Resolver maps keys to actions per context. Global bindings apply in
// every context unless the context rebinds the key.
type Resolver struct {
	byContext map[string]map[string]Action
	byAction  map[Action][]string // action -> keys, in binding order
}

// NewResolver creates a resolver from bindings.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		byContext: make(map[string]map[string]Action),
		byAction:  make(map[Action][]string),
	}
	for _, b := range bindings {
		keys := r.byContext[b.Context]
		if keys == nil {
			keys = make(map[string]Action)
			r.byContext[b.Context] = keys
		}
		for _, key := range b.Keys {
			keys[key] = b.Action
			r.byAction[b.Action] = appendUnique(r.byAction[b.Action], key)
		}
	}
	return r
}

// Resolve returns the action bound to key in context, falling back to
// the global bindings. Unbound keys resolve to "".
func (r *Resolver) Resolve(context, key string) Action {
	if a, ok := r.byContext[context][key]; ok {
		return a
	}
	return r.byContext[ContextGlobal][key]
}

// KeysFor returns the keys bound to an action in any context.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action]
}

func appendUnique(keys []string, key string) []string {
	for _, k := range keys {
		if k == key {
			return keys
		}
	}
	return append(keys, key)
}

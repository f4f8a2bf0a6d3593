package cache

// ScopedKeyer namespaces another Keyer's keys, letting several deployments
// share one Redis or MongoDB backend without reading each other's entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prepends prefix to every key of inner (the default scheme
// when nil).
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ResultKey(tree1Hash, tree2Hash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(tree1Hash, tree2Hash, opts)
}

func (k *ScopedKeyer) PathsKey(paths1, paths2 []string, sep string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.PathsKey(paths1, paths2, sep, opts)
}

package memory

type actions interface {
	all() map[string]any
	lookup(key string) (any, bool)
	set(key string, value any)
	del(key string)
}

type store map[string]any

func (s store) all() map[string]any {
	vs := make(map[string]any, len(s))
	for k, v := range s {
		vs[k] = v
	}
	return vs
}

func (s store) lookup(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

func (s store) set(key string, value any) { s[key] = value }

func (s store) del(key string) { delete(s, key) }

type frame struct {
	super   actions
	values  map[string]any
	deleted map[string]struct{}
}

func (f *frame) init() {
	if f.values == nil {
		f.values = make(map[string]any)
	}
	if f.deleted == nil {
		f.deleted = make(map[string]struct{})
	}
}

func (f *frame) all() map[string]any {
	f.init()
	vs := f.super.all()
	for k := range f.deleted {
		delete(vs, k)
	}
	for k, v := range f.values {
		vs[k] = v
	}
	return vs
}

func (f *frame) lookup(key string) (any, bool) {
	f.init()
	if v, ok := f.values[key]; ok {
		return v, true
	}
	if _, ok := f.deleted[key]; ok {
		return nil, false
	}
	return f.super.lookup(key)
}

func (f *frame) set(key string, value any) {
	f.init()
	delete(f.deleted, key)
	f.values[key] = value
}

func (f *frame) del(key string) {
	f.init()
	delete(f.values, key)
	f.deleted[key] = struct{}{}
}

// commit folds the changes into the parent.
func (f *frame) commit() {
	f.init()
	for key := range f.deleted {
		f.super.del(key)
	}
	for key, value := range f.values {
		f.super.set(key, value)
	}
}

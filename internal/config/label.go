package config

// Label identifies an interned property name within one Data
type Label int

// LabelTable interns property names to Labels. Labels are assigned in
// insertion order and never change for the lifetime of the table.
type LabelTable struct {
	ids   map[string]Label
	names []string
}

// NewLabelTable creates an empty label table
func NewLabelTable() *LabelTable {
	return &LabelTable{
		ids: make(map[string]Label),
	}
}

// Get looks up the label for name without inserting it
func (t *LabelTable) Get(name string) (Label, bool) {
	l, ok := t.ids[name]
	return l, ok
}

// GetOrAdd returns the label for name, interning it if needed
func (t *LabelTable) GetOrAdd(name string) Label {
	if l, ok := t.ids[name]; ok {
		return l
	}
	l := Label(len(t.names))
	t.ids[name] = l
	t.names = append(t.names, name)
	return l
}

// Name returns the string a label was interned from
func (t *LabelTable) Name(l Label) (string, bool) {
	if l < 0 || int(l) >= len(t.names) {
		return "", false
	}
	return t.names[l], true
}

// Len returns the number of interned labels
func (t *LabelTable) Len() int {
	return len(t.names)
}

// Names returns all interned names in label order
func (t *LabelTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

func (t *LabelTable) clone() *LabelTable {
	c := &LabelTable{
		ids:   make(map[string]Label, len(t.ids)),
		names: make([]string, len(t.names)),
	}
	copy(c.names, t.names)
	for k, v := range t.ids {
		c.ids[k] = v
	}
	return c
}

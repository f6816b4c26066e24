package resolve

// RemapTable maps snapshot identifiers to the live identifiers created for
// them. Entries are kept in insertion order.
type RemapTable struct {
	ids   map[string]string
	order []string
}

// NewRemapTable creates an empty table.
func NewRemapTable() *RemapTable {
	return &RemapTable{ids: make(map[string]string)}
}

// Set records that old was applied as live.
func (t *RemapTable) Set(old, live string) {
	if _, ok := t.ids[old]; !ok {
		t.order = append(t.order, old)
	}
	t.ids[old] = live
}

// Get returns the live identifier for old.
func (t *RemapTable) Get(old string) (string, bool) {
	live, ok := t.ids[old]
	return live, ok
}

// Len returns the number of entries.
func (t *RemapTable) Len() int {
	return len(t.order)
}

// Keys returns the snapshot identifiers in insertion order.
func (t *RemapTable) Keys() []string {
	return append([]string(nil), t.order...)
}

// Values returns the live identifiers in insertion order.
func (t *RemapTable) Values() []string {
	out := make([]string, len(t.order))
	for i, old := range t.order {
		out[i] = t.ids[old]
	}
	return out
}

// Map returns a copy of the table as a map.
func (t *RemapTable) Map() map[string]string {
	out := make(map[string]string, len(t.ids))
	for k, v := range t.ids {
		out[k] = v
	}
	return out
}

// remapAll maps ids through the table, dropping those never applied.
func (t *RemapTable) remapAll(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if live, ok := t.ids[id]; ok {
			out = append(out, live)
		}
	}
	return out
}

package knowledge

// Entry is one entity/answer pair as reported by EntityTable.Dump.
type Entry struct {
	Bucket int
	Key    string
	Answer string
}

type entityEntry struct {
	key    string
	answer string
}

// EntityTable maps entity keys to answers with separate chaining.
// Keys compare case-sensitively while the bucket is chosen from the
// lowercased key, so "Einstein" and "einstein" are distinct entries that
// share a chain.
type EntityTable struct {
	buckets [][]entityEntry
	size    uint32
	count   int
}

// NewEntityTable creates an empty table with the given number of buckets.
// A zero size selects DefaultEntityTableSize.
func NewEntityTable(size uint32) *EntityTable {
	if size == 0 {
		size = DefaultEntityTableSize
	}
	return &EntityTable{
		buckets: make([][]entityEntry, size),
		size:    size,
	}
}

// Get returns the answer stored under key.
func (t *EntityTable) Get(key string) (string, bool) {
	for _, e := range t.buckets[Hash(key, t.size)] {
		if e.key == key {
			return e.answer, true
		}
	}
	return "", false
}

// Set stores answer under key, replacing the previous answer if the key is
// already present. New keys are appended to the end of their chain.
func (t *EntityTable) Set(key, answer string) {
	b := Hash(key, t.size)
	chain := t.buckets[b]
	for i := range chain {
		if chain[i].key == key {
			chain[i].answer = answer
			return
		}
	}
	t.buckets[b] = append(chain, entityEntry{key: key, answer: answer})
	t.count++
}

// Len returns the number of entries in the table.
func (t *EntityTable) Len() int {
	return t.count
}

// Clear drops every entry. The table stays usable.
func (t *EntityTable) Clear() {
	for i := range t.buckets {
		t.buckets[i] = nil
	}
	t.count = 0
}

// Dump lists the entries in bucket order, and in insertion order within
// each bucket.
func (t *EntityTable) Dump() []Entry {
	out := make([]Entry, 0, t.count)
	for i, chain := range t.buckets {
		for _, e := range chain {
			out = append(out, Entry{Bucket: i, Key: e.key, Answer: e.answer})
		}
	}
	return out
}

package knowledge

// SectionDump is one section as reported by SectionTable.Dump.
type SectionDump struct {
	Bucket  int
	Intent  string
	Entries []Entry
}

type section struct {
	intent string
	table  *EntityTable
}

// SectionTable is the root of the knowledge base: a chained hash table from
// intent to the EntityTable that section owns.
type SectionTable struct {
	buckets [][]section
	size    uint32
}

// NewSectionTable creates an empty table with the given number of buckets.
// A zero size selects DefaultSectionTableSize.
func NewSectionTable(size uint32) *SectionTable {
	if size == 0 {
		size = DefaultSectionTableSize
	}
	return &SectionTable{
		buckets: make([][]section, size),
		size:    size,
	}
}

// GetSection returns the entity table registered for intent.
func (t *SectionTable) GetSection(intent string) (*EntityTable, bool) {
	for _, s := range t.buckets[Hash(intent, t.size)] {
		if s.intent == intent {
			return s.table, true
		}
	}
	return nil, false
}

// SetSection registers table under intent and takes ownership of it.
// If intent already has a section, its current table is cleared and replaced.
func (t *SectionTable) SetSection(intent string, table *EntityTable) {
	b := Hash(intent, t.size)
	chain := t.buckets[b]
	for i := range chain {
		if chain[i].intent == intent {
			if chain[i].table != table {
				chain[i].table.Clear()
			}
			chain[i].table = table
			return
		}
	}
	t.buckets[b] = append(chain, section{intent: intent, table: table})
}

// Reset clears every section and leaves all buckets empty.
func (t *SectionTable) Reset() {
	for i, chain := range t.buckets {
		for _, s := range chain {
			s.table.Clear()
		}
		t.buckets[i] = nil
	}
}

// Len returns the number of sections.
func (t *SectionTable) Len() int {
	n := 0
	for _, chain := range t.buckets {
		n += len(chain)
	}
	return n
}

// Dump lists every section in bucket-then-chain order together with the
// dump of its entity table.
func (t *SectionTable) Dump() []SectionDump {
	var out []SectionDump
	for i, chain := range t.buckets {
		for _, s := range chain {
			out = append(out, SectionDump{
				Bucket:  i,
				Intent:  s.intent,
				Entries: s.table.Dump(),
			})
		}
	}
	return out
}

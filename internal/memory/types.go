// Package memory persists knowledge base snapshots outside the process:
// as INI files, in SQLite or in PostgreSQL.
package memory

import (
	"github.com/easeaico/kb-chatbot/internal/knowledge"
)

// Record is one stored entity/answer pair. Position preserves the table
// order of the snapshot so a reload rebuilds identical chains.
type Record struct {
	Position int
	Intent   string
	Entity   string
	Answer   string
}

// recordsOf flattens kb into records in table order.
// Sections without entries produce no records.
func recordsOf(kb *knowledge.Base) []Record {
	var records []Record
	for _, s := range kb.Dump() {
		for _, e := range s.Entries {
			records = append(records, Record{
				Position: len(records),
				Intent:   s.Intent,
				Entity:   e.Key,
				Answer:   e.Answer,
			})
		}
	}
	return records
}

// apply stores records into kb in order and returns how many were stored.
// Records whose intent is not recognized, or whose entity Put refuses, are
// skipped.
func apply(kb *knowledge.Base, records []Record) int {
	n := 0
	for _, r := range records {
		if err := kb.EnsureSection(r.Intent); err != nil {
			continue
		}
		if err := kb.Put(r.Intent, r.Entity, r.Answer); err != nil {
			continue
		}
		n++
	}
	return n
}

// Package knowledge implements the chatbot's knowledge base: a two-level
// hash table from question intent to entity to answer, together with the
// INI-like text format it is saved in.
package knowledge

import "strings"

// Intents the knowledge base accepts as section names.
const (
	IntentWhat  = "what"
	IntentWhere = "where"
	IntentWho   = "who"
)

var recognizedIntents = []string{IntentWhat, IntentWhere, IntentWho}

// Recognized returns the canonical (lowercase) form of intent and whether it
// is one of the question words the knowledge base stores answers for.
func Recognized(intent string) (string, bool) {
	for _, r := range recognizedIntents {
		if EqualFold(intent, r) {
			return r, true
		}
	}
	return "", false
}

// ValidEntity reports whether entity can be saved and read back unchanged:
// it must be non-empty, fit on one line, contain no '=' and not start with
// '[' (which would read back as a section header).
func ValidEntity(entity string) bool {
	return entity != "" &&
		entity[0] != '[' &&
		!strings.ContainsAny(entity, "=\r\n")
}

// Base is the knowledge base. It is not safe for concurrent use.
type Base struct {
	sections   *SectionTable
	entitySize uint32
}

// Option configures a Base.
type Option func(*Base)

// WithSectionBuckets sets the bucket count of the section table.
func WithSectionBuckets(n uint32) Option {
	return func(b *Base) {
		b.sections = NewSectionTable(n)
	}
}

// WithEntityBuckets sets the bucket count of every entity table the base creates.
func WithEntityBuckets(n uint32) Option {
	return func(b *Base) {
		b.entitySize = n
	}
}

// New creates an empty knowledge base.
func New(opts ...Option) *Base {
	b := &Base{
		sections:   NewSectionTable(DefaultSectionTableSize),
		entitySize: DefaultEntityTableSize,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Get returns the answer for entity under intent.
//
// It returns ErrInvalidIntent when intent is not recognized or no section
// has been created for it yet, and ErrNotFound when the section exists but
// has no answer for entity. A recognized intent whose section was never
// created is reported as invalid rather than created here; callers create
// it with EnsureSection.
func (b *Base) Get(intent, entity string) (string, error) {
	table, err := b.section(intent)
	if err != nil {
		return "", err
	}
	answer, ok := table.Get(entity)
	if !ok {
		return "", ErrNotFound
	}
	return answer, nil
}

// Put stores answer for entity under intent, overwriting any previous answer.
// The section must already exist; otherwise ErrInvalidIntent is returned
// and nothing is stored. Entities rejected by ValidEntity and answers
// spanning lines return ErrInvalidEntity.
func (b *Base) Put(intent, entity, answer string) error {
	if !ValidEntity(entity) || strings.ContainsAny(answer, "\r\n") {
		return ErrInvalidEntity
	}
	table, err := b.section(intent)
	if err != nil {
		return err
	}
	table.Set(entity, answer)
	return nil
}

// EnsureSection creates an empty section for a recognized intent if it does
// not exist yet. An existing section is left untouched.
func (b *Base) EnsureSection(intent string) error {
	key, ok := Recognized(intent)
	if !ok {
		return ErrInvalidIntent
	}
	b.ensure(key)
	return nil
}

// Reset removes every section and answer.
func (b *Base) Reset() {
	b.sections.Reset()
}

// Empty reports whether the base has no sections at all.
func (b *Base) Empty() bool {
	return b.sections.Len() == 0
}

// Sections returns the section table backing the base.
func (b *Base) Sections() *SectionTable {
	return b.sections
}

// Dump lists every section and its entries in table order.
func (b *Base) Dump() []SectionDump {
	return b.sections.Dump()
}

func (b *Base) section(intent string) (*EntityTable, error) {
	key, ok := Recognized(intent)
	if !ok {
		return nil, ErrInvalidIntent
	}
	table, ok := b.sections.GetSection(key)
	if !ok {
		return nil, ErrInvalidIntent
	}
	return table, nil
}

// ensure returns the table for an already-canonical intent, registering a
// new one if needed.
func (b *Base) ensure(key string) *EntityTable {
	if table, ok := b.sections.GetSection(key); ok {
		return table
	}
	table := NewEntityTable(b.entitySize)
	b.sections.SetSection(key, table)
	return table
}

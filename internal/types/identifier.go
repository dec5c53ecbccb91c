package types

// IdentifierKind tells whether an identifier is a real keyword id or the
// keyword text standing in for one.
type IdentifierKind string

const (
	IdentifierKindID           IdentifierKind = "id"
	IdentifierKindTextFallback IdentifierKind = "text_fallback"
)

// Identifier is the resolved identity of a performance record.
//
// Some ingestion paths do not carry a stable keyword id, so the keyword text
// is used instead. Two TextFallback identifiers that compare equal only share
// text; they are not guaranteed to be the same keyword entity.
type Identifier struct {
	Kind  IdentifierKind `json:"kind"`
	Value string         `json:"value"`
}

// IsFallback reports whether the identifier is keyword text rather than an id.
func (i Identifier) IsFallback() bool {
	return i.Kind == IdentifierKindTextFallback
}

func (i Identifier) String() string {
	return i.Value
}

// ResolveIdentifier returns the record's keyword id, or its keyword text
// when no id is present.
func ResolveIdentifier(p PerformanceRecord) Identifier {
	if p.KeywordID != "" {
		return Identifier{Kind: IdentifierKindID, Value: p.KeywordID}
	}
	return Identifier{Kind: IdentifierKindTextFallback, Value: p.Keyword}
}

// ResolveID is ResolveIdentifier without the kind tag.
// Callers must not treat the value as a primary key.
func ResolveID(p PerformanceRecord) string {
	return ResolveIdentifier(p).Value
}

// KeywordIdentifier applies the same id-or-text fallback to a keyword record.
func KeywordIdentifier(k KeywordRecord) Identifier {
	if k.ID != "" {
		return Identifier{Kind: IdentifierKindID, Value: k.ID}
	}
	return Identifier{Kind: IdentifierKindTextFallback, Value: k.Keyword}
}

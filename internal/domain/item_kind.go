package domain

// ItemKind classifies a curriculum item. Review events carry it so
// mastery promotions can be attributed to the right per-kind counter;
// an empty kind counts toward no kind-specific stat.
type ItemKind string

const (
	ItemKindUnknown    ItemKind = ""
	ItemKindKanji      ItemKind = "kanji"
	ItemKindVocabulary ItemKind = "vocabulary"
	ItemKindGrammar    ItemKind = "grammar"
)

// IsValid reports whether the kind is in the known set.
func (k ItemKind) IsValid() bool {
	switch k {
	case ItemKindUnknown, ItemKindKanji, ItemKindVocabulary, ItemKindGrammar:
		return true
	default:
		return false
	}
}

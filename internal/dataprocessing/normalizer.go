package dataprocessing

import "github.com/gurnulezaran/Blinkit-Data-Analysis/pkg/contracts/domain"

// fatContentAliases maps raw fat-content spellings onto canonical labels.
// No value on the right appears on the left, which makes normalization idempotent.
var fatContentAliases = map[string]string{
	"LF":      domain.FatContentLowFat,
	"low fat": domain.FatContentLowFat,
	"reg":     domain.FatContentRegular,
}

// CanonicalFatContent returns the canonical label for raw. Unknown values are
// returned unchanged.
func CanonicalFatContent(raw string) string {
	if canonical, ok := fatContentAliases[raw]; ok {
		return canonical
	}
	return raw
}

// Normalize returns a copy of records with every fat-content value in
// canonical form. The input slice is left untouched.
func Normalize(records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	for i, rec := range records {
		rec.ItemFatContent = CanonicalFatContent(rec.ItemFatContent)
		out[i] = rec
	}
	return out
}

package utils

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// MaxRank is the largest rank a uint16 rank list can carry.
const MaxRank = 0xFFFF

// NormalizeWord returns the NFC form of a word so that precomposed and
// decomposed spellings map to the same symbols.
func NormalizeWord(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// RankList returns the ranks 1..count for an already ordered list.
func RankList(count int) ([]uint16, error) {
	if count > MaxRank {
		return nil, fmt.Errorf("cannot rank %d entries, max %d", count, MaxRank)
	}
	ranks := make([]uint16, max(count, 0))
	for i := range ranks {
		ranks[i] = uint16(i + 1)
	}
	return ranks, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comic

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeChapterNumber maps a free-text chapter number to the integer used
// for every comparison. It reads an optional sign and the leading digits
// after trimming spaces, so "01", "1" and "1.5" all normalize to 1.
func NormalizeChapterNumber(number string) (int, error) {
	trimmed := strings.TrimSpace(number)

	end := 0
	if end < len(trimmed) && (trimmed[end] == '+' || trimmed[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}

	if end == digitsStart {
		return 0, fmt.Errorf("%w: %q", ErrInvalidChapterNumber, number)
	}

	value, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidChapterNumber, number, err)
	}
	return value, nil
}

// SameChapterNumber reports whether a and b normalize to the same integer.
// Unparseable numbers only match when the raw strings are equal.
func SameChapterNumber(a, b string) bool {
	left, errLeft := NormalizeChapterNumber(a)
	right, errRight := NormalizeChapterNumber(b)
	if errLeft != nil || errRight != nil {
		return strings.TrimSpace(a) == strings.TrimSpace(b)
	}
	return left == right
}

// ReaderID builds the chapter reader id "{comicId}-{number}". It is also the
// composite key of the chapter's page artifact.
func ReaderID(comicID, number string) string {
	return comicID + "-" + number
}

// ParseReaderID splits a reader id on its last hyphen, so comic ids that
// contain hyphens ("popular-1-167") still resolve.
func ParseReaderID(readerID string) (comicID, number string, err error) {
	index := strings.LastIndex(readerID, "-")
	if index <= 0 || index == len(readerID)-1 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidReaderID, readerID)
	}
	return readerID[:index], readerID[index+1:], nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides lenient conversions for query parameters.

A malformed value falls back to a default instead of failing the request. Use
strconv directly where telling bad input apart from a zero value matters.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD converts a string to an int, returning def if parsing fails or the
// string is empty.
func ToIntD(str string, def int) int {
	str = strings.TrimSpace(str)
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	return def
}

// ToFloat64D converts a string to a float64, returning def if parsing fails
// or the string is empty.
func ToFloat64D(str string, def float64) float64 {
	str = strings.TrimSpace(str)
	if str == "" {
		return def
	}

	if v, err := strconv.ParseFloat(str, 64); err == nil {
		return v
	}

	return def
}

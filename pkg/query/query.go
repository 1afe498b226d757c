// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses multi-value URL query parameters.
package query

import (
	"strings"
)

// StringSlice collects values from repeated parameters and comma-separated
// lists ("?genre=Action&genre=Drama,Fantasy") into one trimmed slice.
func StringSlice(vals ...string) []string {
	var res []string
	for _, val := range vals {
		for _, v := range strings.Split(val, ",") {
			clean := strings.TrimSpace(v)
			if clean != "" {
				res = append(res, clean)
			}
		}
	}
	return res
}

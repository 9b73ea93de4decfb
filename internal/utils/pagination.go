// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// PageWindow normalizes raw page/per_page query values into a 1-based page,
// a clamped page size, and the matching offset. Non-numeric or out-of-range
// values fall back to sane bounds instead of erroring.
func PageWindow(pageStr, perStr string, defaultPer, maxPer int) (page, per, offset int) {
	page = AtoiDefault(pageStr, 1)
	if page < 1 {
		page = 1
	}
	per = AtoiDefault(perStr, defaultPer)
	if per < 1 {
		per = defaultPer
	}
	if per > maxPer {
		per = maxPer
	}
	offset = (page - 1) * per
	return page, per, offset
}

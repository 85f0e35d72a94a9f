package utils

import "strings"

// NormalizePlate upper-cases a plate number and drops surrounding spaces,
// so "ab-123 " and "AB-123" name the same vehicle.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// NormalizeLocation collapses runs of whitespace. Location matching itself
// is case-insensitive and happens in the query.
func NormalizeLocation(location string) string {
	return strings.Join(strings.Fields(location), " ")
}

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

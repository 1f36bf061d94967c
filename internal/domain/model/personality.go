package model

import "strings"

// Personality is a named reply style the bot can switch to.
type Personality struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Prompt      string `json:"-" yaml:"prompt"`
}

type PersonalityList struct {
	Current   string        `json:"current"`
	Available []Personality `json:"available"`
}

// NormalizeName lowercases and trims a personality name for lookups.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

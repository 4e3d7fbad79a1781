package tools

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns a snake_case key into title-cased words:
// "customer_retention" -> "Customer Retention".
func Humanize(key string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(key, "_", " "))
}

package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugDashes   = regexp.MustCompile(`-+`)
	slugAllDigit = regexp.MustCompile(`^\d+$`)
	slugTrailing = regexp.MustCompile(`-(\d+)$`)
	slugLeading  = regexp.MustCompile(`^(\d+)-`)
)

// MakeSlug builds the canonical URL slug for a title: lowercased, romanized,
// stripped to [a-z0-9-], with the numeric id appended ("dexter-1405").
// Titles that normalize to nothing fall back to "item-{id}".
func MakeSlug(title string, id int) string {
	s := strings.ToLower(unidecode.Unidecode(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(strings.TrimSpace(s), "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "item-" + strconv.Itoa(id)
	}
	return s + "-" + strconv.Itoa(id)
}

// SlugID recovers the numeric id from a slug. A slug that is purely digits is
// a bare id; otherwise a trailing "-123" group wins, then a leading "123-"
// group. Returns false when no id can be recovered; callers treat that as
// "not found", never as an error.
func SlugID(slug string) (int, bool) {
	if slugAllDigit.MatchString(slug) {
		return atoiID(slug)
	}
	if m := slugTrailing.FindStringSubmatch(slug); m != nil {
		return atoiID(m[1])
	}
	if m := slugLeading.FindStringSubmatch(slug); m != nil {
		return atoiID(m[1])
	}
	return 0, false
}

func atoiID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

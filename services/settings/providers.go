package settings

import (
	"strconv"
	"strings"
)

// WatchProviderFilter is the binary content filter: show everything, or only
// titles available on the viewer's selected streaming providers.
type WatchProviderFilter string

const (
	FilterAll           WatchProviderFilter = "all"
	FilterStreamingOnly WatchProviderFilter = "streaming-only"
)

// ProviderFilter resolves the persisted content filter. Anything other than
// the streaming-only marker, including an absent value, resolves to all.
func ProviderFilter(s Store) WatchProviderFilter {
	if v, ok := s.Get(ProviderFilterKey); ok && v == string(FilterStreamingOnly) {
		return FilterStreamingOnly
	}
	return FilterAll
}

// SetProviderFilter persists the content filter and marks the viewer as
// having customized settings.
func SetProviderFilter(s Store, f WatchProviderFilter) bool {
	if f != FilterAll && f != FilterStreamingOnly {
		return false
	}
	s.Set(ProviderFilterKey, string(f), PreferenceLifetime)
	MarkHasSettings(s)
	return true
}

// SelectedProviderIDs returns the viewer's opted-in streaming provider ids.
// Missing preference or a value with no usable entries yields an empty
// slice, which downstream means "no restriction".
func SelectedProviderIDs(s Store) []int {
	raw, ok := s.Get(ProvidersKey)
	if !ok {
		return nil
	}
	return ParseProviderIDs(raw)
}

// ParseProviderIDs parses a comma-separated id list, silently dropping
// blank, non-numeric and non-positive entries.
func ParseProviderIDs(raw string) []int {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// SetSelectedProviderIDs persists the id set (normalized back to a comma
// list) and marks the viewer as having customized settings.
func SetSelectedProviderIDs(s Store, ids []int) {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			parts = append(parts, strconv.Itoa(id))
		}
	}
	s.Set(ProvidersKey, strings.Join(parts, ","), PreferenceLifetime)
	MarkHasSettings(s)
}

// SelectedProviderQuery returns the selected ids pipe-joined for TMDB's
// with_watch_providers parameter ("8|337"), or "" when none are selected.
func SelectedProviderQuery(s Store) string {
	ids := SelectedProviderIDs(s)
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "|")
}

// MarkHasSettings sets the sentinel recording that the viewer touched any
// preference.
func MarkHasSettings(s Store) {
	s.Set(HasSettingsKey, "true", PreferenceLifetime)
}

// HasCustomSettings reports whether the viewer customized anything: the
// sentinel, a non-default region, or streaming-only mode.
func HasCustomSettings(s Store, defaultRegion string) bool {
	if _, ok := s.Get(HasSettingsKey); ok {
		return true
	}
	if region, ok := s.Get(RegionKey); ok && region != defaultRegion {
		return true
	}
	return ProviderFilter(s) == FilterStreamingOnly
}

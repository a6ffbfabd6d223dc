package ckan

import (
	"encoding/json"
	"sort"

	"golang.org/x/text/language"
)

// LocalizedString is a metadata field keyed by language ("de", "en", "fr",
// "it"). Portals without the multilingual extension publish a plain
// string, which unmarshals as a single untagged entry.
type LocalizedString map[string]string

// untaggedKey stores plain-string values inside the map.
const untaggedKey = ""

// UnmarshalJSON accepts both a plain string and a language-keyed object.
func (l *LocalizedString) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*l = LocalizedString{untaggedKey: plain}
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*l = LocalizedString(m)
	return nil
}

// In returns the value best matching the preferred language, using BCP 47
// matching over the languages present. An untagged plain string always
// wins; an empty field yields "".
func (l LocalizedString) In(preferred string) string {
	if len(l) == 0 {
		return ""
	}
	if v, ok := l[untaggedKey]; ok {
		return v
	}

	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make([]language.Tag, 0, len(keys))
	valid := make([]string, 0, len(keys))
	for _, k := range keys {
		tag, err := language.Parse(k)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		valid = append(valid, k)
	}
	if len(tags) == 0 {
		return l[keys[0]]
	}

	want, err := language.Parse(preferred)
	if err != nil {
		want = language.German
	}
	matcher := language.NewMatcher(tags)
	_, i, _ := matcher.Match(want)
	return l[valid[i]]
}

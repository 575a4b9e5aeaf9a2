package strata

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/dshills/strata/nested"
)

// ExportJSON serializes the merged view of every tier as one JSON
// document. The document is built from leaf values, so subtrees that
// hold no leaves are omitted. Export is caller-initiated serialization
// only; settings files are never written back.
func (m *Manager) ExportJSON() ([]byte, error) {
	t, err := m.Merged()
	if err != nil {
		return nil, err
	}
	return encodeTree(t)
}

// ExportJSON serializes the source's tree as a JSON document. Subtrees
// that hold no leaves are omitted.
func (s *Source) ExportJSON() ([]byte, error) {
	return encodeTree(s.tree)
}

// EncodeValue serializes any resolved settings value as JSON. Trees
// keep their insertion order; other values marshal as plain data.
func EncodeValue(v any) ([]byte, error) {
	if t, ok := v.(*nested.Tree); ok {
		return encodeTree(t)
	}
	return json.Marshal(nested.Plain(v))
}

// encodeTree builds the document leaf by leaf so object key order
// follows the tree's insertion order. Empty subtrees contribute no
// leaves and do not appear in the output.
func encodeTree(t *nested.Tree) ([]byte, error) {
	doc := []byte("{}")
	sep := t.Separator()
	for _, e := range t.Flatten() {
		var err error
		doc, err = sjson.SetBytes(doc, sjsonPath(e.Path, sep), nested.Plain(e.Value))
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// sjsonPath converts a tree path to sjson syntax: segments join with
// dots, characters sjson treats specially are escaped, and integer-like
// segments get the ":" prefix so sjson writes them as object keys
// instead of array indexes.
func sjsonPath(path, sep string) string {
	segs := strings.Split(path, sep)
	for i, s := range segs {
		if isIntegerSegment(s) {
			segs[i] = ":" + s
			continue
		}
		segs[i] = escapeSegment(s)
	}
	return strings.Join(segs, ".")
}

// isIntegerSegment reports whether s would be read by sjson as an array
// index or append marker ("5", "2313", "-1").
func isIntegerSegment(s string) bool {
	digits := s
	if strings.HasPrefix(digits, "-") {
		digits = digits[1:]
	}
	if digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

func escapeSegment(s string) string {
	if !strings.ContainsAny(s, `.*?|#@:\`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '.', '*', '?', '|', '#', '@', ':', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

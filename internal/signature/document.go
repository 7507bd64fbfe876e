// Package signature turns RetireJS-style signature feeds into an ordered map
// of atomic JavaScript detection expressions per library.
package signature

import (
	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
)

// Feed field names. The RetireJS feed calls the library alias "bowername"
// and keeps runtime expressions under extractors.func.
const (
	aliasKey      = "bowername"
	extractorsKey = "extractors"
	funcKey       = "func"
)

// Descriptor is one library entry of a signature feed.
type Descriptor struct {
	// Aliases holds the alias field. A scalar alias is stored as a single
	// element; the first element is the canonical library name.
	Aliases []string
	// Extractors holds the raw extractor expressions in feed order.
	Extractors []string
}

// Entry pairs a raw feed key with its descriptor.
type Entry struct {
	Key        string
	Descriptor Descriptor
}

// Document is a parsed signature feed. Entries keep the order of the source
// JSON object because that order decides the order of the generated script.
type Document struct {
	Entries []Entry
	// Malformed counts descriptors or fields that were dropped while parsing.
	Malformed int
}

// ParseDocument parses a signature feed. The top-level value must be a JSON
// object; everything below it is read leniently and shape problems are
// counted in Document.Malformed instead of failing the parse.
func ParseDocument(data []byte) (Document, error) {
	var doc Document

	_, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return doc, errors.Wrap(err, "signature: parse document")
	}
	if typ != jsonparser.Object {
		return doc, errors.Newf("signature: document is %s, want object", typ)
	}

	// A repeated key keeps the position of its first occurrence and the
	// value of its last, as a JSON object decoded into a map would.
	index := make(map[string]int)
	err = jsonparser.ObjectEach(data, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		k := string(key)
		i, seen := index[k]

		if dataType != jsonparser.Object {
			doc.Malformed++
			if seen {
				doc.Entries[i].Descriptor = Descriptor{}
			}
			return nil
		}

		desc, malformed := parseDescriptor(value)
		doc.Malformed += malformed
		if seen {
			doc.Entries[i].Descriptor = desc
			return nil
		}
		index[k] = len(doc.Entries)
		doc.Entries = append(doc.Entries, Entry{Key: k, Descriptor: desc})
		return nil
	})
	if err != nil {
		return Document{}, errors.Wrap(err, "signature: walk document")
	}
	return doc, nil
}

func parseDescriptor(data []byte) (Descriptor, int) {
	var (
		desc      Descriptor
		malformed int
	)

	value, typ, _, err := jsonparser.Get(data, aliasKey)
	if err == nil {
		switch typ {
		case jsonparser.String:
			s, err := jsonparser.ParseString(value)
			if err != nil {
				malformed++
				break
			}
			desc.Aliases = []string{s}
		case jsonparser.Array:
			aliases, bad := parseStrings(value)
			malformed += bad
			// Only the first element names the library. When it is not a
			// string there is no usable alias.
			if _, first, _, err := jsonparser.Get(value, "[0]"); err == nil && first != jsonparser.String {
				aliases = nil
			}
			desc.Aliases = aliases
		case jsonparser.Null:
		default:
			malformed++
		}
	}

	value, typ, _, err = jsonparser.Get(data, extractorsKey, funcKey)
	if err == nil {
		switch typ {
		case jsonparser.Array:
			exprs, bad := parseStrings(value)
			desc.Extractors = exprs
			malformed += bad
		case jsonparser.Null:
		default:
			malformed++
		}
	}

	return desc, malformed
}

// parseStrings returns the string items of a JSON array and the number of
// items that were not strings.
func parseStrings(data []byte) ([]string, int) {
	var (
		out []string
		bad int
	)
	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if err != nil || dataType != jsonparser.String {
			bad++
			return
		}
		s, err := jsonparser.ParseString(value)
		if err != nil {
			bad++
			return
		}
		out = append(out, s)
	})
	if err != nil {
		bad++
	}
	return out, bad
}

package sop

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
	"lukechampine.com/blake3"
)

// DomainSOP separates tree fingerprints from other hashed content.
const DomainSOP = "csvflow/sop/v1"

// MarshalCanonical encodes n deterministically for hashing and comparison:
//
//	{"kind":"sum","children":{"a":{...},"tail":1},"data":...}
//
// Children are keyed by NFC-normalised label in sorted order, a
// back-reference is encoded as its depth, and zero data is omitted.
// HTML characters are not escaped.
func MarshalCanonical[D comparable](n *Node[D]) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical[D comparable](buf *bytes.Buffer, n *Node[D]) error {
	buf.WriteString(`{"kind":`)
	writeCanonicalString(buf, n.Kind.String())

	if len(n.Children) > 0 {
		entries := make([]Entry[D], len(n.Children))
		for i, e := range n.Children {
			entries[i] = Entry[D]{Label: norm.NFC.String(e.Label), Child: e.Child}
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Label < entries[j].Label })

		buf.WriteString(`,"children":{`)
		for i, e := range entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, e.Label)
			buf.WriteByte(':')
			if e.Child.IsBackRef() {
				fmt.Fprintf(buf, "%d", e.Child.Ref)
				continue
			}
			if err := writeCanonical(buf, e.Child.Node); err != nil {
				return fmt.Errorf("%s: %w", e.Label, err)
			}
		}
		buf.WriteByte('}')
	}

	var zero D
	if n.Data != zero {
		data, err := encodeNoEscape(n.Data)
		if err != nil {
			return fmt.Errorf("data: %w", err)
		}
		buf.WriteString(`,"data":`)
		buf.Write(data)
	}
	buf.WriteByte('}')
	return nil
}

func writeCanonicalString(buf *bytes.Buffer, s string) {
	// Encoding a string cannot fail.
	b, _ := encodeNoEscape(norm.NFC.String(s))
	buf.Write(b)
}

func encodeNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Fingerprint is the hex BLAKE3 hash of n's canonical encoding, separated
// by DomainSOP. Equal trees have equal fingerprints.
func Fingerprint[D comparable](n *Node[D]) (string, error) {
	canonical, err := MarshalCanonical(n)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return HashWithDomain(DomainSOP, canonical), nil
}

// HashWithDomain computes BLAKE3(domain + 0x00 + data) as hex.
func HashWithDomain(domain string, data []byte) string {
	h := blake3.New(32, nil)
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

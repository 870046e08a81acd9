// Package render writes references for people and programs.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thiagokokada/gitref/internal/codec"
	"github.com/thiagokokada/gitref/internal/reference"
	"github.com/thiagokokada/gitref/internal/refname"
)

type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatYAML
	FormatCBOR
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatCBOR:
		return "cbor"
	default:
		return "text"
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	}
	return FormatText, fmt.Errorf("unknown output format %q", s)
}

func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *Format) UnmarshalText(b []byte) error {
	parsed, err := ParseFormat(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Record is the serialized form of a reference.Ref.
type Record struct {
	Name   refname.Name  `json:"name" yaml:"name" cbor:"name"`
	Oid    string        `json:"oid" yaml:"oid" cbor:"oid"`
	Target *refname.Name `json:"target,omitempty" yaml:"target,omitempty" cbor:"target,omitempty"`
}

func NewRecord(ref reference.Ref) Record {
	rec := Record{Name: ref.Name, Oid: ref.Hash.String()}
	if ref.IsSymbolic() {
		target := ref.Target
		rec.Target = &target
	}
	return rec
}

// Write renders refs to w in the given format.
func Write(w io.Writer, format Format, refs []reference.Ref) error {
	if format == FormatText {
		for _, ref := range refs {
			if _, err := fmt.Fprintln(w, ref); err != nil {
				return err
			}
		}
		return nil
	}

	records := make([]Record, 0, len(refs))
	for _, ref := range refs {
		records = append(records, NewRecord(ref))
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		return codec.NewEncoder(w).Encode(records)
	}
	return fmt.Errorf("unknown output format %d", format)
}

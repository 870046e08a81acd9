package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"

	"github.com/thiagokokada/gitref/internal/codec"
	"github.com/thiagokokada/gitref/internal/reference"
	"github.com/thiagokokada/gitref/internal/refname"
)

// Read parses a listing written by Write in the same format.
func Read(r io.Reader, format Format) ([]reference.Ref, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format == FormatText {
		return readText(data)
	}

	var records []Record
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &records)
	case FormatYAML:
		err = yaml.Unmarshal(data, &records)
	case FormatCBOR:
		err = codec.Unmarshal(data, &records)
	default:
		return nil, fmt.Errorf("unknown output format %d", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s listing: %w", format, err)
	}

	refs := make([]reference.Ref, 0, len(records))
	for i, rec := range records {
		ref, err := rec.Ref()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Ref converts rec back into a reference.Ref.
func (rec Record) Ref() (reference.Ref, error) {
	if rec.Name.IsZero() {
		return reference.Ref{}, errors.New("missing name")
	}
	if !plumbing.IsHash(rec.Oid) {
		return reference.Ref{}, fmt.Errorf("%s: invalid object id %q", rec.Name, rec.Oid)
	}
	hash := plumbing.NewHash(rec.Oid)
	if rec.Target != nil {
		return reference.NewSymbolic(rec.Name, *rec.Target, hash), nil
	}
	return reference.NewRef(rec.Name, hash), nil
}

// readText parses "<oid> <name>" and "<oid> <name> -> <target>" lines.
func readText(data []byte) ([]reference.Ref, error) {
	var refs []reference.Ref
	n := 0
	for line := range strings.Lines(string(bytes.TrimSpace(data))) {
		n++
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 && (len(fields) != 4 || fields[2] != "->") {
			return nil, fmt.Errorf("line %d: malformed reference %q", n, strings.TrimSpace(line))
		}
		rec := Record{Oid: fields[0]}
		name, err := refname.Parse(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		rec.Name = name
		if len(fields) == 4 {
			target, err := refname.Parse(fields[3])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			rec.Target = &target
		}
		ref, err := rec.Ref()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

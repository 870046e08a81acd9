package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"

	"github.com/thiagokokada/gitref/internal/codec"
	"github.com/thiagokokada/gitref/internal/reference"
	"github.com/thiagokokada/gitref/internal/refname"
)

const oid = "1111111111111111111111111111111111111111"

func testRefs() []reference.Ref {
	hash := plumbing.NewHash(oid)
	return []reference.Ref{
		reference.NewRef(refname.MustParse("refs/heads/main"), hash),
		reference.NewSymbolic(refname.MustParse("refs/rad/self"), refname.MustParse("refs/heads/main"), hash),
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"":      FormatText,
		"text":  FormatText,
		"JSON":  FormatJSON,
		"yaml":  FormatYAML,
		"yml":   FormatYAML,
		" cbor": FormatCBOR,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("ParseFormat(%q) error = %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("ParseFormat(xml) succeeded")
	}
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatText, testRefs()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := oid + " refs/heads/main\n" + oid + " refs/rad/self -> refs/heads/main\n"
	if buf.String() != want {
		t.Fatalf("Write() = %q, want %q", buf.String(), want)
	}
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, testRefs()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	var got []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Write() = %s", buf.String())
	}
	if got[0]["name"] != "refs/heads/main" || got[0]["oid"] != oid {
		t.Fatalf("first record = %v", got[0])
	}
	if _, ok := got[0]["target"]; ok {
		t.Fatalf("direct ref has a target: %v", got[0])
	}
	if got[1]["target"] != "refs/heads/main" {
		t.Fatalf("second record = %v", got[1])
	}
}

func TestWriteYAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatYAML, testRefs()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "- name: refs/heads/main\n") {
		t.Fatalf("Write() = %s", buf.String())
	}
	var got []Record
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if len(got) != 2 || got[1].Target == nil || got[1].Target.String() != "refs/heads/main" {
		t.Fatalf("yaml.Unmarshal() = %+v", got)
	}
}

func TestWriteCBOR(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, FormatCBOR, testRefs()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	var got []Record
	if err := codec.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("codec.Unmarshal() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("codec.Unmarshal() = %+v", got)
	}
	if got[0].Name.String() != "refs/heads/main" || got[0].Oid != oid || got[0].Target != nil {
		t.Fatalf("first record = %+v", got[0])
	}
	if got[1].Target == nil || got[1].Target.String() != "refs/heads/main" {
		t.Fatalf("second record = %+v", got[1])
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	before := Snapshot(testRefs()[:1])
	after := Snapshot(testRefs())

	if got, err := Diff(before, before); err != nil || got != "" {
		t.Fatalf("Diff() of equal snapshots = %q, %v", got, err)
	}
	got, err := Diff(before, after)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	for _, want := range []string{
		"--- a/refs\n",
		"+++ b/refs\n",
		"+" + oid + " refs/rad/self -> refs/heads/main\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("Diff() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "-"+oid) {
		t.Fatalf("Diff() removed a line: %q", got)
	}
}

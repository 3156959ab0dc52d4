package entity

import (
	"strings"
	"testing"

	"github.com/daogora-xyz/bip-keychain-core/model"
)

func mustParse(t *testing.T, data string) *Document {
	t.Helper()
	doc, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func mustCanonical(t *testing.T, entityJSON string) string {
	t.Helper()
	doc := &Document{SchemaType: "custom", Entity: []byte(entityJSON)}
	b, err := doc.CanonicalBytes()
	if err != nil {
		t.Fatalf("CanonicalBytes(%s): %v", entityJSON, err)
	}
	return string(b)
}

func TestParseDefaults(t *testing.T) {
	doc := mustParse(t, `{"schema_type":"dns","entity":{"domain":"example.com"}}`)
	if doc.Config.HashFunction != model.HashHmacSHA512 {
		t.Fatalf("default hash function = %q, want hmac_sha512", doc.Config.HashFunction)
	}
	if !doc.Config.Hardened {
		t.Fatal("default hardened = false, want true")
	}
}

func TestParseExplicitConfig(t *testing.T) {
	doc := mustParse(t, `{
		"schema_type": "schema_org",
		"entity": {"@type": "Person", "name": "Alice"},
		"derivation_config": {"hash_function": "blake2b", "hardened": false},
		"purpose": "ssh login",
		"metadata": {"owner": "alice"}
	}`)
	if doc.Config.HashFunction != model.HashBlake2b {
		t.Fatalf("hash function = %q, want blake2b", doc.Config.HashFunction)
	}
	if doc.Config.Hardened {
		t.Fatal("hardened = true, want false")
	}
	if doc.Purpose != "ssh login" {
		t.Fatalf("purpose = %q", doc.Purpose)
	}
	if doc.Metadata["owner"] != "alice" {
		t.Fatalf("metadata = %v", doc.Metadata)
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
		kind model.Kind
	}{
		{"not json", `{`, model.KindMalformedEntity},
		{"missing schema_type", `{"entity":{}}`, model.KindMalformedEntity},
		{"unknown schema_type", `{"schema_type":"nope","entity":{}}`, model.KindMalformedEntity},
		{"missing entity", `{"schema_type":"dns"}`, model.KindMalformedEntity},
		{"unknown hash", `{"schema_type":"dns","entity":{},"derivation_config":{"hash_function":"md5"}}`, model.KindUnsupportedHashFunction},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.in))
		if err == nil {
			t.Fatalf("%s: Parse succeeded, want %s", tc.name, tc.kind)
		}
		if !model.IsKind(err, tc.kind) {
			t.Fatalf("%s: kind = %q, want %q (%v)", tc.name, model.KindOf(err), tc.kind, err)
		}
	}
}

func TestCanonicalKeyOrder(t *testing.T) {
	got := mustCanonical(t, `{"b": 1, "a": "x"}`)
	want := `{"a":"x","b":1}`
	if got != want {
		t.Fatalf("canonical = %s, want %s", got, want)
	}
}

func TestCanonicalNestedKeyOrder(t *testing.T) {
	got := mustCanonical(t, `{"z": {"c": true, "b": null}, "a": [3, {"y": 1, "x": 2}]}`)
	want := `{"a":[3,{"x":2,"y":1}],"z":{"b":null,"c":true}}`
	if got != want {
		t.Fatalf("canonical = %s, want %s", got, want)
	}
}

func TestCanonicalWhitespaceInsensitive(t *testing.T) {
	compact := mustCanonical(t, `{"domain":"example.com","record":"A"}`)
	spaced := mustCanonical(t, "{\n  \"record\": \"A\",\n  \"domain\": \"example.com\"\n}")
	if compact != spaced {
		t.Fatalf("formatting changed canonical bytes:\n%s\n%s", compact, spaced)
	}
}

func TestCanonicalArrayOrderPreserved(t *testing.T) {
	a := mustCanonical(t, `[1,2,3]`)
	b := mustCanonical(t, `[3,2,1]`)
	if a == b {
		t.Fatal("array order was not preserved")
	}
}

func TestCanonicalNumberNormalization(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`1000`, `1000`},
		{`1e3`, `1000`},
		{`1000.0`, `1000`},
		{`-0`, `0`},
		{`-0.0`, `0`},
		{`1.5`, `1.5`},
		{`-42`, `-42`},
		{`1e21`, `1e+21`},
	}
	for _, tc := range cases {
		if got := mustCanonical(t, tc.in); got != tc.want {
			t.Fatalf("canonical(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalStringEscaping(t *testing.T) {
	got := mustCanonical(t, `{"s": "a\"b\\c\nd", "u": "héllo"}`)
	want := `{"s":"a\"b\\c\nd","u":"héllo"}`
	if got != want {
		t.Fatalf("canonical = %s, want %s", got, want)
	}
}

func TestCanonicalRejectsTrailingData(t *testing.T) {
	doc := &Document{SchemaType: "custom", Entity: []byte(`{"a":1} garbage`)}
	_, err := doc.CanonicalBytes()
	if !model.IsKind(err, model.KindMalformedEntity) {
		t.Fatalf("kind = %q, want MalformedEntity (%v)", model.KindOf(err), err)
	}
}

func TestCanonicalRejectsInvalidJSON(t *testing.T) {
	doc := &Document{SchemaType: "custom", Entity: []byte(`{"a":`)}
	_, err := doc.CanonicalBytes()
	if !model.IsKind(err, model.KindMalformedEntity) {
		t.Fatalf("kind = %q, want MalformedEntity (%v)", model.KindOf(err), err)
	}
}

func TestIDStability(t *testing.T) {
	a := mustParse(t, `{"schema_type":"dns","entity":{"domain":"example.com","record":"A"}}`)
	b := mustParse(t, `{"schema_type":"dns","entity":{ "record" : "A", "domain" : "example.com" }}`)

	idA, err := a.ID()
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	idB, err := b.ID()
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if idA != idB {
		t.Fatalf("equivalent payloads got distinct IDs: %s vs %s", idA, idB)
	}
	if !strings.HasPrefix(idA, "bafk") {
		t.Fatalf("ID %s is not a CIDv1 raw/sha2-256 string", idA)
	}

	c := mustParse(t, `{"schema_type":"dns","entity":{"domain":"example.org","record":"A"}}`)
	idC, err := c.ID()
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if idC == idA {
		t.Fatal("distinct payloads got the same ID")
	}
}

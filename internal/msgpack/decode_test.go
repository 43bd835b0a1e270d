package msgpack

import (
	"bytes"
	"errors"
	"testing"
)

type request struct {
	Session string   `msgpack:"session"`
	Values  []string `msgpack:"values,omitempty"`
	Limit   int64    `msgpack:"limit,omitempty"`
}

func TestRoundTrip(t *testing.T) {
	in := request{Session: "s1", Values: []string{"AF", "LH"}, Limit: 7}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	var out request
	if err := Decode(data, &out); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if out.Session != in.Session || out.Limit != in.Limit || len(out.Values) != 2 || out.Values[1] != "LH" {
		t.Errorf("decoded %+v, want %+v", out, in)
	}
}

func TestDecodeUnknownField(t *testing.T) {
	data, err := Encode(map[string]any{"session": "s1", "sesion": "typo"})
	if err != nil {
		t.Fatal(err)
	}
	var out request
	if err := Decode(data, &out); err == nil {
		t.Error("expected error for an undeclared field")
	}
}

func TestDecodeEmpty(t *testing.T) {
	var out request
	if err := Decode(nil, &out); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
}

func TestEncodeSortsMapKeys(t *testing.T) {
	m := map[string][]string{"airline": {"AF"}, "aircraft": {"A320"}, "arrival_country": {"Spain"}}
	first, err := Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, err := Encode(m)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("encoding of the same map differs between calls")
		}
	}
}

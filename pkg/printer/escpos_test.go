package printer

import (
	"bytes"
	"testing"
)

func TestCodePageFor(t *testing.T) {
	cases := []struct {
		encoding string
		want     byte
	}{
		{"CP437", CodePagePC437},
		{"pc437", CodePagePC437},
		{"CP850", CodePagePC850},
		{"pc850", CodePagePC850},
		{"CP860", CodePagePC860},
		{"", CodePagePC860},
		{"latin1", CodePagePC860},
	}
	for _, c := range cases {
		if got := CodePageFor(c.encoding); got != c.want {
			t.Errorf("CodePageFor(%q) = %#x, want %#x", c.encoding, got, c.want)
		}
	}
}

func TestSetCodePageEmitsEscT(t *testing.T) {
	doc := NewDocument(32).SetCodePage(CodePagePC860)
	want := []byte{ESC, 't', CodePagePC860}
	got := doc.Bytes()
	if !bytes.HasSuffix(got, want) {
		t.Fatalf("expected stream to end with ESC t %#x, got % x", CodePagePC860, got)
	}
	// Init still leads the stream.
	if !bytes.HasPrefix(got, []byte{ESC, '@'}) {
		t.Fatalf("expected initialized stream, got % x", got)
	}
}

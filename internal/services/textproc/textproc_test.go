package textproc

import (
	"reflect"
	"testing"
)

func TestPrepareNormalizes(t *testing.T) {
	doc := Prepare("Win a FREE Prize now!!!")

	want := []string{"win", "free", "prize", "now"}
	if !reflect.DeepEqual(doc.Tokens, want) {
		t.Fatalf("unexpected tokens: got %v, want %v", doc.Tokens, want)
	}
	if doc.Length != len("Win a FREE Prize now!!!") {
		t.Fatalf("unexpected length: got %d", doc.Length)
	}
}

func TestPrepareDropsStopwords(t *testing.T) {
	doc := Prepare("this is the and a an")
	if len(doc.Tokens) != 0 {
		t.Fatalf("expected all stopwords dropped, got %v", doc.Tokens)
	}
}

func TestPrepareEmptyMessage(t *testing.T) {
	doc := Prepare("")
	if len(doc.Tokens) != 0 || doc.Length != 0 {
		t.Fatalf("unexpected document for empty message: %#v", doc)
	}
}

func TestPrepareLengthCountsRunes(t *testing.T) {
	doc := Prepare("héllo")
	if doc.Length != 5 {
		t.Fatalf("expected rune count 5, got %d", doc.Length)
	}
}

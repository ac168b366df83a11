package name

import "testing"

func TestInternedEquality(t *testing.T) {
	if New("line") != LineMacro {
		t.Fatalf("interned names must compare equal")
	}
	if New("Line") == LineMacro {
		t.Fatalf("names are case sensitive")
	}
	if New("r#file") != FileMacro {
		t.Fatalf("raw prefix must be dropped")
	}
}

func TestNFCNormalization(t *testing.T) {
	composed := New("café")
	decomposed := New("café")
	if composed != decomposed {
		t.Fatalf("NFC-equivalent identifiers must intern to the same name")
	}
	if composed.String() != "café" {
		t.Fatalf("String() = %q", composed.String())
	}
}

func TestMissing(t *testing.T) {
	var n Name
	if !n.IsMissing() || n.String() != "[missing name]" {
		t.Fatalf("zero name must be missing")
	}
	if StringifyMacro.IsMissing() || ColumnMacro.String() != "column" {
		t.Fatalf("known names must be present")
	}
}

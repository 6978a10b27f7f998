package roster

import "testing"

func TestMatchFirstName(t *testing.T) {
	names := []string{"Rahul Mehta", "Aakash Sharma", "Priya Nair"}

	got, ok := MatchFirstName(names, "Priya")
	if !ok || got != "Priya Nair" {
		t.Fatalf("expected Priya Nair, got %q ok=%v", got, ok)
	}
}

func TestMatchFirstNameIsCaseInsensitive(t *testing.T) {
	got, ok := MatchFirstName(Default, "aakash")
	if !ok || got != "Aakash Sharma" {
		t.Fatalf("expected Aakash Sharma, got %q ok=%v", got, ok)
	}
}

func TestMatchFirstNameTrimsWhitespace(t *testing.T) {
	got, ok := MatchFirstName(Default, "  Rohan ")
	if !ok || got != "Rohan Kapoor" {
		t.Fatalf("expected Rohan Kapoor, got %q ok=%v", got, ok)
	}
}

func TestMatchFirstNamePrefersEarlierEntryOnPrefixTie(t *testing.T) {
	names := []string{"Ana Banerjee", "Ananya Iyer"}

	got, ok := MatchFirstName(names, "Ana")
	if !ok || got != "Ana Banerjee" {
		t.Fatalf("expected first roster entry to win, got %q ok=%v", got, ok)
	}
}

func TestMatchFirstNameEmptyInput(t *testing.T) {
	if _, ok := MatchFirstName(Default, ""); ok {
		t.Fatal("empty first name must not match")
	}
	if _, ok := MatchFirstName(Default, "   "); ok {
		t.Fatal("whitespace first name must not match")
	}
	if _, ok := MatchFirstName(nil, "Priya"); ok {
		t.Fatal("empty roster must not match")
	}
}

func TestMatchFirstNameNoMatch(t *testing.T) {
	if got, ok := MatchFirstName(Default, "Zubin"); ok {
		t.Fatalf("expected no match, got %q", got)
	}
}

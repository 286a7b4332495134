package enums

import "testing"

func TestParseLeadStatus(t *testing.T) {
	for _, raw := range []string{"new", "in_progress", "contacted", "discarded"} {
		got, err := ParseLeadStatus(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if got.String() != raw {
			t.Fatalf("expected %q got %q", raw, got)
		}
	}
	if _, err := ParseLeadStatus("closed"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestEnumValidity(t *testing.T) {
	if !PostStatusPublished.IsValid() || PostStatus("archived").IsValid() {
		t.Fatal("unexpected post status validity")
	}
	if !ScriptPlacementBodyEnd.IsValid() || ScriptPlacement("footer").IsValid() {
		t.Fatal("unexpected script placement validity")
	}
	if _, err := ParseSettingsKind("cta"); err != nil {
		t.Fatalf("expected cta to parse: %v", err)
	}
	if _, err := ParseAssetKind("video"); err == nil {
		t.Fatal("expected video to be rejected")
	}
}

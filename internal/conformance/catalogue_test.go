package conformance

import "testing"

func TestCatalogueIsValid(t *testing.T) {
	features := Catalogue()
	if len(features) == 0 {
		t.Fatal("empty catalogue")
	}

	// The constructor enforces the naming contract.
	if _, err := NewDispatcher(features, Options{}); err != nil {
		t.Fatalf("catalogue rejected: %v", err)
	}

	seen := make(map[string]bool)
	for _, f := range features {
		if f.Name == "" {
			t.Error("feature with empty name")
		}
		if f.Tag == 0 {
			t.Errorf("feature %q has no tag", f.Name)
		}
		if seen[f.Name] {
			t.Errorf("duplicate feature name %q", f.Name)
		}
		seen[f.Name] = true
		if len(f.Subtests) == 0 {
			t.Errorf("feature %q has no subtests", f.Name)
		}
		for _, st := range f.Subtests {
			if st.Name == "" {
				t.Errorf("feature %q has a subtest with an empty name", f.Name)
			}
			if st.Run == nil {
				t.Errorf("subtest %q has no run function", st.Name)
			}
			if st.LAMask == 0 {
				t.Errorf("subtest %q has an empty address mask", st.Name)
			}
		}
	}
}

func TestCatalogueOrder(t *testing.T) {
	features := Catalogue()
	if features[0].Name != "Core" {
		t.Errorf("first feature = %q, want Core", features[0].Name)
	}
	last := features[len(features)-1]
	if last.Name != "Post-test checks" {
		t.Errorf("last feature = %q, want the post-test scan", last.Name)
	}
}

func TestCatalogueNoInteractiveTag(t *testing.T) {
	// Interactive is a run option, not part of any feature's tag set:
	// a feature tagged with it would be skipped whenever its own tag
	// is selected without "interactive".
	for _, f := range Catalogue() {
		if f.Tag&TagInteractive != 0 {
			t.Errorf("feature %q carries the interactive tag", f.Name)
		}
	}
}

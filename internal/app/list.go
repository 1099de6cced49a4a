package app

import (
	"fmt"
	"io"

	"github.com/cectools/cecomply/internal/conformance"
)

// RunList prints every catalogued feature and its subtests.
func RunList(w io.Writer) error {
	for _, f := range conformance.Catalogue() {
		fmt.Fprintf(w, "%s (%s):\n", f.Name, f.Tag)
		for _, st := range f.Subtests {
			fmt.Fprintf(w, "\t%s\n", st.Name)
		}
	}
	return nil
}

// RunListTags prints the known tag names.
func RunListTags(w io.Writer) error {
	for _, name := range conformance.TagNames() {
		fmt.Fprintf(w, "%s\n", name)
	}
	return nil
}

package domain

import (
	"testing"

	"tagcore/testutil"
)

// The domain layer defines the vocabulary every other package shares. It must
// stay free of internal packages and external modules so that adapters,
// stores, and tools can depend on it without dragging in implementation
// choices.
func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden,
		"domain layer must not depend on internal packages")
}

func TestDomainStaysStdlibOnly(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.ModuleImportForbidden,
		"domain layer must not depend on external modules")
}

package core

import (
	"go/types"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestSnapshotStoreImplementationsHardening ensures only sanctioned
// persistence packages provide concrete implementations of the
// domain.SnapshotStore interface. This guards against additional backends
// appearing outside the vetted locations without an explicit test update.
func TestSnapshotStoreImplementationsHardening(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedTypes, Tests: true}
	pkgs, err := packages.Load(cfg, "tagcore/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	var snapshotStore *types.Interface
	for _, p := range pkgs {
		if p.PkgPath != "tagcore/pkg/domain" {
			continue
		}
		obj := p.Types.Scope().Lookup("SnapshotStore")
		if obj == nil {
			t.Fatalf("domain.SnapshotStore not found")
		}
		iface, ok := obj.Type().Underlying().(*types.Interface)
		if !ok {
			t.Fatalf("domain.SnapshotStore is not an interface")
		}
		snapshotStore = iface
	}
	if snapshotStore == nil {
		t.Fatalf("failed to resolve SnapshotStore interface")
	}

	allowed := map[string]struct{}{
		"tagcore/internal/infra/persistence/memory":   {},
		"tagcore/internal/infra/persistence/file":     {},
		"tagcore/internal/infra/persistence/sqlite":   {},
		"tagcore/internal/infra/persistence/postgres": {},
		"tagcore/internal/core":                       {}, // test stubs for failure injection
	}
	var unexpected []string
	for _, p := range pkgs {
		if p.Types == nil || p.Types.Scope() == nil {
			continue
		}
		for _, name := range p.Types.Scope().Names() {
			obj := p.Types.Scope().Lookup(name)
			named, ok := obj.Type().(*types.Named)
			if !ok {
				continue
			}
			if _, ok := named.Underlying().(*types.Struct); !ok {
				continue
			}
			if types.Implements(types.NewPointer(named), snapshotStore) {
				if _, ok := allowed[p.PkgPath]; !ok {
					unexpected = append(unexpected, p.PkgPath+"."+name)
				}
			}
		}
	}
	if len(unexpected) > 0 {
		t.Fatalf("unexpected SnapshotStore implementations (update the allowed list intentionally when adding a backend):\n%v", unexpected)
	}
}

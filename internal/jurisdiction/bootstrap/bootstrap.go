// Package bootstrap wires every known jurisdiction into the registry in one
// explicit, declared order.
//
// Jurisdiction modules do not self-register via init side effects; load
// order then silently decides which packs exist, which is exactly the class
// of bug this list removes. Adding a state means adding its calls here.
package bootstrap

import (
	"log/slog"

	"govern/internal/compliance"
	"govern/internal/jurisdiction"
	"govern/internal/jurisdiction/indiana"
)

// Registry builds the jurisdiction registry with every supported state
// registered in canonical order.
func Registry(logger *slog.Logger) *jurisdiction.Registry {
	reg := jurisdiction.NewRegistry(logger)

	// Indiana
	reg.RegisterJurisdiction(indiana.Metadata())
	reg.RegisterDomainPack(indiana.FinancePack())
	for _, p := range indiana.RecordsPacks() {
		reg.RegisterLegacyPack(p)
	}

	// Future states register here, after Indiana.

	return reg
}

// Engines builds one compliance engine per jurisdiction, keyed by
// jurisdiction code.
func Engines() map[string]*compliance.Engine {
	return map[string]*compliance.Engine{
		indiana.Code: compliance.NewEngine(indiana.FinanceRules(), indiana.Opinions()),
	}
}

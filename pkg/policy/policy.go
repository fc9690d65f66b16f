// SPDX-License-Identifier: MPL-2.0

package policy

import (
	"github.com/starpack/starpack/pkg/collection"
	"github.com/starpack/starpack/pkg/resource"
)

// Policy bundles the defaults applied to resources as they are wrapped for
// script evaluation.
type Policy struct {
	// Placement is the default location rule for derived contexts.
	Placement Placement

	// IncludeSourceModules, IncludePackageResources, and
	// IncludeDistributionResources set the default include flag per
	// resource kind.
	IncludeSourceModules         bool
	IncludePackageResources      bool
	IncludeDistributionResources bool

	// StoreSource controls whether source modules retain their source
	// text alongside compiled form by default.
	StoreSource bool

	// OptimizeLevelZero, OptimizeLevelOne, and OptimizeLevelTwo set the
	// default bytecode emission flags for source modules.
	OptimizeLevelZero bool
	OptimizeLevelOne  bool
	OptimizeLevelTwo  bool
}

// Default returns the baseline policy: everything included in memory,
// source retained, bytecode at optimization level 0 only.
func Default() *Policy {
	return &Policy{
		Placement:                    InMemoryOnly(),
		IncludeSourceModules:         true,
		IncludePackageResources:      true,
		IncludeDistributionResources: true,
		StoreSource:                  true,
		OptimizeLevelZero:            true,
	}
}

// WithPlacement returns a copy of the policy with its placement replaced.
func (p *Policy) WithPlacement(placement Placement) *Policy {
	out := *p
	out.Placement = placement
	return &out
}

// Validate returns an error if the policy's placement is malformed.
func (p *Policy) Validate() error {
	return p.Placement.Validate()
}

// DeriveContext builds a fresh collection context for the given record, or
// nil for record kinds that carry no context (extension modules, bytecode,
// plain files). Each call returns an independent context: wrappers own
// their contexts exclusively and must never share fallback pointers.
func (p *Policy) DeriveContext(rec resource.Resource) *collection.Context {
	base := func(include bool) *collection.Context {
		ctx := &collection.Context{
			Include:  include,
			Location: p.Placement.Location,
		}
		if p.Placement.Fallback != nil {
			fb := *p.Placement.Fallback
			ctx.LocationFallback = &fb
		}
		return ctx
	}

	switch rec.Kind() {
	case resource.KindSourceModule:
		ctx := base(p.IncludeSourceModules)
		ctx.StoreSource = p.StoreSource
		ctx.OptimizeLevelZero = p.OptimizeLevelZero
		ctx.OptimizeLevelOne = p.OptimizeLevelOne
		ctx.OptimizeLevelTwo = p.OptimizeLevelTwo
		return ctx
	case resource.KindPackageResource:
		return base(p.IncludePackageResources)
	case resource.KindDistributionResource:
		return base(p.IncludeDistributionResources)
	default:
		return nil
	}
}

// SPDX-License-Identifier: MPL-2.0

package policy

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/starpack/starpack/pkg/cueutil"
	"github.com/starpack/starpack/pkg/types"
)

//go:embed policy_schema.cue
var policySchema string

// policyFile mirrors the #Policy schema shape for CUE decoding.
type policyFile struct {
	Resources                    string `json:"resources"`
	IncludeSourceModules         bool   `json:"include_source_modules"`
	IncludePackageResources      bool   `json:"include_package_resources"`
	IncludeDistributionResources bool   `json:"include_distribution_resources"`
	StoreSource                  bool   `json:"store_source"`
	OptimizeLevelZero            bool   `json:"optimize_level_zero"`
	OptimizeLevelOne             bool   `json:"optimize_level_one"`
	OptimizeLevelTwo             bool   `json:"optimize_level_two"`
}

// ParseFile reads and parses a policy file from the given path.
func ParseFile(path types.FilesystemPath) (*Policy, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file at %s: %w", path, err)
	}
	return ParseBytes(data, string(path))
}

// ParseBytes parses policy file content from bytes.
// Uses cueutil.ParseAndDecodeString for the 3-step CUE parsing flow:
// compile schema → compile user data → validate and decode.
func ParseBytes(data []byte, path string) (*Policy, error) {
	result, err := cueutil.ParseAndDecodeString[policyFile](
		policySchema,
		data,
		"#Policy",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	spec := result.Value
	placement, err := ParsePlacement(spec.Resources)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Policy{
		Placement:                    placement,
		IncludeSourceModules:         spec.IncludeSourceModules,
		IncludePackageResources:      spec.IncludePackageResources,
		IncludeDistributionResources: spec.IncludeDistributionResources,
		StoreSource:                  spec.StoreSource,
		OptimizeLevelZero:            spec.OptimizeLevelZero,
		OptimizeLevelOne:             spec.OptimizeLevelOne,
		OptimizeLevelTwo:             spec.OptimizeLevelTwo,
	}, nil
}

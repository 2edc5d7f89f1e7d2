package client

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// SupportedServiceVersions is the range of service versions this client speaks.
const SupportedServiceVersions = ">= 1.0.0, < 2.0.0"

// CheckCompatible reports whether a service advertising version can be used.
// An empty version is accepted since older services do not advertise one.
func CheckCompatible(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("failed to parse service version %q: %w", version, err)
	}
	c, err := semver.NewConstraint(SupportedServiceVersions)
	if err != nil {
		return fmt.Errorf("failed to parse version constraint: %w", err)
	}
	if !c.Check(v) {
		return fmt.Errorf("service version %s is not supported (need %s)", v, SupportedServiceVersions)
	}
	return nil
}

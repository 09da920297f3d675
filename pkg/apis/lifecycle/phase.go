// Package lifecycle defines the azd lifecycle phases that azdhooks serves.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPhase is returned when a name does not match any Phase.
var ErrUnknownPhase = errors.New("unknown lifecycle phase")

// Phase identifies the point in the azd lifecycle at which a hook runs.
// Its value is the hook name used in azure.yaml.
type Phase string

const (
	// PhasePreProvision runs before Azure resources are provisioned.
	PhasePreProvision Phase = "preprovision"
	// PhasePostProvision runs after Azure resources are provisioned.
	PhasePostProvision Phase = "postprovision"
	// PhasePreDeploy runs before application deployment.
	PhasePreDeploy Phase = "predeploy"
	// PhasePostDeploy runs after application deployment.
	PhasePostDeploy Phase = "postdeploy"
)

// Phases returns all phases in lifecycle order.
func Phases() []Phase {
	return []Phase{PhasePreProvision, PhasePostProvision, PhasePreDeploy, PhasePostDeploy}
}

// ParsePhase resolves a phase name case-insensitively. Dashes are ignored so
// that "pre-provision" and "preprovision" are equivalent.
func ParsePhase(name string) (Phase, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "")

	for _, phase := range Phases() {
		if string(phase) == normalized {
			return phase, nil
		}
	}

	return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownPhase, name, strings.Join(Names(), ", "))
}

// Names returns the phase names in lifecycle order.
func Names() []string {
	phases := Phases()
	names := make([]string, len(phases))

	for i, phase := range phases {
		names[i] = string(phase)
	}

	return names
}

// Title returns the human-readable phase name used in log messages, e.g. "Pre-provision".
func (p Phase) Title() string {
	switch p {
	case PhasePreProvision:
		return "Pre-provision"
	case PhasePostProvision:
		return "Post-provision"
	case PhasePreDeploy:
		return "Pre-deploy"
	case PhasePostDeploy:
		return "Post-deploy"
	default:
		return string(p)
	}
}

// Description returns a one-line summary of when the phase runs.
func (p Phase) Description() string {
	switch p {
	case PhasePreProvision:
		return "Runs before Azure resources are provisioned"
	case PhasePostProvision:
		return "Runs after Azure resources are provisioned"
	case PhasePreDeploy:
		return "Runs before application deployment"
	case PhasePostDeploy:
		return "Runs after application deployment"
	default:
		return ""
	}
}

// Suggestions lists typical tasks for the phase. They are written as
// comments into scaffolded configuration.
func (p Phase) Suggestions() []string {
	switch p {
	case PhasePreProvision:
		return []string{
			"Validate required environment variables",
			"Check prerequisites",
			"Prepare configuration files",
			"Set up external dependencies",
		}
	case PhasePostProvision:
		return []string{
			"Configure newly created resources",
			"Set up RBAC permissions",
			"Initialize databases or storage",
			"Run database migrations",
			"Set up monitoring",
		}
	case PhasePreDeploy:
		return []string{
			"Build application assets",
			"Run unit tests",
			"Package application",
			"Validate deployment prerequisites",
			"Prepare container images",
		}
	case PhasePostDeploy:
		return []string{
			"Run smoke tests",
			"Warm up applications",
			"Send deployment notifications",
			"Update external monitoring",
			"Configure CDN or DNS",
		}
	default:
		return nil
	}
}

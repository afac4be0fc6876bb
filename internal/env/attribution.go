package env

import (
	"strings"

	"ush/internal/config"
	"ush/internal/container"
)

// GroupContainers attributes discovered containers to environment names.
// The compose project label is the primary signal: a label equal to the
// project name is the default environment, "<project>-<env>" is a named
// one. Name-prefix parsing is kept only as a fallback for unlabeled legacy
// containers. Containers belonging to other compose projects are dropped.
func GroupContainers(cfg *config.ProjectConfig, containers []container.Container) map[string][]container.Container {
	grouped := make(map[string][]container.Container)

	for _, c := range containers {
		name, ok := environmentFor(cfg, c)
		if !ok {
			continue
		}
		grouped[name] = append(grouped[name], c)
	}

	return grouped
}

func environmentFor(cfg *config.ProjectConfig, c container.Container) (string, bool) {
	project := cfg.Project.Name

	if c.ComposeProject != "" {
		if c.ComposeProject == project {
			return cfg.DefaultEnvName(), true
		}
		if strings.HasPrefix(c.ComposeProject, project+"-") {
			return strings.TrimPrefix(c.ComposeProject, project+"-"), true
		}
		return "", false
	}

	return environmentFromName(cfg, c.Name)
}

// environmentFromName parses "<project>-..." container names. The default
// environment only claims a name when the suffix is positively a known
// service: "ushadow-backend" is default's backend, but "ushadow-foo-backend"
// belongs to environment "foo" even though both share the project prefix.
func environmentFromName(cfg *config.ProjectConfig, name string) (string, bool) {
	prefix := cfg.Project.Name + "-"
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}

	rest := strings.TrimPrefix(name, prefix)
	if cfg.IsKnownService(rest) {
		return cfg.DefaultEnvName(), true
	}

	// "<env>-<service>": the service is the last segment
	idx := strings.LastIndex(rest, "-")
	if idx <= 0 {
		return "", false
	}

	envName := rest[:idx]
	service := rest[idx+1:]
	if !cfg.IsKnownService(service) {
		return "", false
	}
	return envName, true
}

// Package container discovers and toggles docker containers by their compose
// project labels. Discovery is read-only and re-derives everything from the
// docker CLI on every call.
package container

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ush/internal/errors"
	"ush/internal/logger"
	"ush/internal/shell"
)

// Inspector discovers containers through docker ps + docker inspect
type Inspector struct {
	runner shell.Runner
}

// NewInspector creates a container inspector
func NewInspector(runner shell.Runner) *Inspector {
	return &Inspector{runner: runner}
}

// DiscoverForProject returns all containers labeled with the given compose
// project. Discovery is two-phase: candidate names from docker ps, detail
// per name from docker inspect. A failed inspect of one container (usually
// a removal race) drops that container and continues.
func (i *Inspector) DiscoverForProject(ctx context.Context, composeProject string) ([]Container, error) {
	return i.discover(ctx, fmt.Sprintf("label=%s=%s", LabelComposeProject, composeProject))
}

// DiscoverLabeled returns every container carrying a compose project label,
// whatever the label's value. Attribution to environments happens later from
// the label values themselves.
func (i *Inspector) DiscoverLabeled(ctx context.Context) ([]Container, error) {
	return i.discover(ctx, fmt.Sprintf("label=%s", LabelComposeProject))
}

// DiscoverByName returns containers whose names contain the given prefix.
// Label filters cannot see pre-compose legacy containers; this is the
// discovery pass that feeds name-based attribution for them.
func (i *Inspector) DiscoverByName(ctx context.Context, namePrefix string) ([]Container, error) {
	return i.discover(ctx, fmt.Sprintf("name=%s", namePrefix))
}

func (i *Inspector) discover(ctx context.Context, filter string) ([]Container, error) {
	names, err := i.listNames(ctx, filter)
	if err != nil {
		return nil, err
	}

	containers := make([]Container, 0, len(names))
	for _, name := range names {
		c, err := i.Inspect(ctx, name)
		if err != nil {
			logger.WithFields(logger.Fields{
				"container": name,
				"error":     err.Error(),
			}).Debug("Skipping container that failed inspect")
			continue
		}
		containers = append(containers, c)
	}

	return containers, nil
}

// listNames runs the docker ps phase of discovery
func (i *Inspector) listNames(ctx context.Context, filter string) ([]string, error) {
	result := i.runner.Run(ctx, "docker", "ps", "-a",
		"--filter", filter,
		"--format", "{{.Names}}")
	if shell.IsBinaryMissing(result) {
		return nil, errors.Wrap(errors.ErrToolUnavailable, "docker executable not found", result.Err)
	}
	if !result.Success() {
		return nil, errors.NewWithDetails(errors.ErrToolUnavailable,
			"docker ps failed", strings.TrimSpace(result.Stderr))
	}

	var names []string
	for _, line := range strings.Split(result.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// Inspect fetches the detail record for one container
func (i *Inspector) Inspect(ctx context.Context, name string) (Container, error) {
	result := i.runner.Run(ctx, "docker", "inspect", name)
	if shell.IsBinaryMissing(result) {
		return Container{}, errors.Wrap(errors.ErrToolUnavailable, "docker executable not found", result.Err)
	}
	if !result.Success() {
		return Container{}, errors.NewWithDetails(errors.ErrContainerInspect,
			"docker inspect failed", strings.TrimSpace(result.Stderr))
	}

	// docker inspect returns a JSON array; the first element is the container
	var records []inspectRecord
	if err := json.Unmarshal([]byte(result.Stdout), &records); err != nil {
		return Container{}, errors.Wrap(errors.ErrParse, "malformed docker inspect output", err)
	}
	if len(records) == 0 {
		return Container{}, errors.NewWithDetails(errors.ErrContainerNotFound, "container not found", name)
	}

	return containerFromInspect(records[0]), nil
}

// containerFromInspect maps docker's structure onto the reconciliation view.
// Absent compose labels degrade to "unknown"/empty, never an error.
func containerFromInspect(rec inspectRecord) Container {
	c := Container{
		Name:           strings.TrimPrefix(rec.Name, "/"),
		Status:         rec.State.Status,
		ServiceName:    "unknown",
		ComposeProject: "",
	}
	if c.Status == "" {
		c.Status = "unknown"
	}

	if svc := rec.Config.Labels[LabelComposeService]; svc != "" {
		c.ServiceName = svc
	}
	if proj := rec.Config.Labels[LabelComposeProject]; proj != "" {
		c.ComposeProject = proj
	}

	c.Ports = extractPortMappings(rec.NetworkSettings.Ports)
	return c
}

// extractPortMappings flattens the NetworkSettings.Ports map. Keys look like
// "8000/tcp"; the binding array may be empty for unpublished ports, which
// yields nothing. One PortMapping is emitted per binding entry, duplicates
// included. Output is sorted so Ports[0] is the same mapping on every call;
// docker's map carries no order and the lowest container port anchors the
// environment's port math.
func extractPortMappings(ports map[string][]portBinding) []PortMapping {
	var mappings []PortMapping

	for key, bindings := range ports {
		parts := strings.SplitN(key, "/", 2)
		containerPort, err := strconv.ParseUint(parts[0], 10, 16)
		if err != nil {
			continue
		}

		protocol := "tcp"
		if len(parts) == 2 && parts[1] != "" {
			protocol = parts[1]
		}

		for _, binding := range bindings {
			hostPort, err := strconv.ParseUint(binding.HostPort, 10, 16)
			if err != nil {
				continue
			}
			mappings = append(mappings, PortMapping{
				HostPort:      uint16(hostPort),
				ContainerPort: uint16(containerPort),
				Protocol:      protocol,
			})
		}
	}

	sort.Slice(mappings, func(i, j int) bool {
		if mappings[i].ContainerPort != mappings[j].ContainerPort {
			return mappings[i].ContainerPort < mappings[j].ContainerPort
		}
		if mappings[i].Protocol != mappings[j].Protocol {
			return mappings[i].Protocol < mappings[j].Protocol
		}
		return mappings[i].HostPort < mappings[j].HostPort
	})

	return mappings
}

// Package ports computes per-environment port assignments and verifies them
// against the host.
package ports

import (
	"fmt"
	"net"

	"ush/internal/constants"
	"ush/internal/errors"
	"ush/internal/logger"
)

// Allocation is a verified backend/webui port pair
type Allocation struct {
	BackendPort int
	WebUIPort   int
	Offset      int
}

// ProbeFunc reports whether a port can currently be bound on the host.
// Injectable so tests can simulate occupied ports.
type ProbeFunc func(port int) bool

// Allocator computes and verifies port pairs for environments
type Allocator struct {
	probe   ProbeFunc
	exclude map[int]bool
}

// New creates an allocator using real bind probes
func New() *Allocator {
	return &Allocator{probe: BindProbe}
}

// NewWithProbe creates an allocator with a custom probe, used in tests
func NewWithProbe(probe ProbeFunc) *Allocator {
	return &Allocator{probe: probe}
}

// SetExcluded marks ports that must never be handed out
func (a *Allocator) SetExcluded(ports []int) {
	a.exclude = make(map[int]bool, len(ports))
	for _, p := range ports {
		a.exclude[p] = true
	}
}

// OffsetForName derives the deterministic default offset for an environment
// name: sum of the name's bytes reduced modulo the offset range, scaled by
// the step. Weak as a hash, but stable across runs so an environment keeps
// its ports; bind probing corrects collisions at allocation time.
func OffsetForName(name string) int {
	sum := 0
	for _, b := range []byte(name) {
		sum += int(b)
	}
	return (sum % constants.PortOffsetRange) * constants.PortOffsetStep
}

// Allocate finds a bindable backend/webui pair starting at preferredOffset.
// The webui port always sits exactly WebUIPortDelta below the backend port.
func (a *Allocator) Allocate(baseBackend, baseWebUI, preferredOffset int) (Allocation, error) {
	if baseBackend < constants.WebUIPortDelta {
		return Allocation{}, errors.NewWithDetails(errors.ErrInvalidPortBase,
			"backend base port too low",
			fmt.Sprintf("got %d, need at least %d", baseBackend, constants.WebUIPortDelta))
	}

	offset := preferredOffset
	for attempt := 0; attempt < constants.MaxPortProbeAttempts; attempt++ {
		backend := baseBackend + offset
		webui := backend - constants.WebUIPortDelta

		if backend > constants.MaxPortNumber {
			break
		}

		if a.usable(backend) && a.usable(webui) {
			if offset != preferredOffset {
				logger.WithFields(logger.Fields{
					"preferred_offset": preferredOffset,
					"offset":           offset,
				}).Debug("Preferred port offset occupied, shifted")
			}
			return Allocation{BackendPort: backend, WebUIPort: webui, Offset: offset}, nil
		}

		offset += constants.PortOffsetStep
	}

	return Allocation{}, errors.NewWithDetails(errors.ErrAllocationExhausted,
		"no free backend/webui port pair found",
		fmt.Sprintf("tried %d offsets from %d", constants.MaxPortProbeAttempts, preferredOffset))
}

// AllocateForName allocates using the name-derived deterministic offset
func (a *Allocator) AllocateForName(name string, baseBackend, baseWebUI int) (Allocation, error) {
	return a.Allocate(baseBackend, baseWebUI, OffsetForName(name))
}

func (a *Allocator) usable(port int) bool {
	if a.exclude[port] {
		return false
	}
	return a.probe(port)
}

// BindProbe reports whether a loopback listener can be opened on port. A
// failed bind means something already holds the port.
func BindProbe(port int) bool {
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return false
	}
	l.Close()
	return true
}

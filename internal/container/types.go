package container

// Compose label keys used for environment attribution
const (
	LabelComposeProject = "com.docker.compose.project"
	LabelComposeService = "com.docker.compose.service"
)

// Container states as reported by docker inspect .State.Status
const (
	StateRunning = "running"
	StateExited  = "exited"
	StateCreated = "created"
)

// PortMapping is one published port binding. Dual-stack IPv4/IPv6 publishing
// yields two bindings with identical host ports; both are kept and callers
// deduplicate by value.
type PortMapping struct {
	HostPort      uint16 `json:"host_port"`
	ContainerPort uint16 `json:"container_port"`
	Protocol      string `json:"protocol"`
}

// Container is the reconciliation-facing view of one docker container
type Container struct {
	Name           string        `json:"name"`
	ServiceName    string        `json:"service_name"`
	Status         string        `json:"status"`
	Ports          []PortMapping `json:"ports"`
	ComposeProject string        `json:"compose_project"`
}

// IsRunning reports whether the container's state is running
func (c Container) IsRunning() bool {
	return c.Status == StateRunning
}

// inspectRecord is the subset of docker inspect output this tool reads.
// Every field is optional; missing keys degrade to zero values rather than
// failing the parse.
type inspectRecord struct {
	Name  string `json:"Name"`
	State struct {
		Status string `json:"Status"`
	} `json:"State"`
	Config struct {
		Labels map[string]string `json:"Labels"`
	} `json:"Config"`
	NetworkSettings struct {
		Ports map[string][]portBinding `json:"Ports"`
	} `json:"NetworkSettings"`
}

type portBinding struct {
	HostIP   string `json:"HostIp"`
	HostPort string `json:"HostPort"`
}

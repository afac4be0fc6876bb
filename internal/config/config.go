package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"ush/internal/constants"
	"ush/internal/errors"
)

// ProjectConfigFile is the per-project configuration file name
const ProjectConfigFile = ".launcher-config.yaml"

// Manager handles configuration loading and validation
type Manager struct {
	Project *ProjectConfig
	Global  *GlobalConfig
}

// ProjectConfig represents the per-project .launcher-config.yaml
type ProjectConfig struct {
	Project struct {
		Name        string `yaml:"name"`
		DefaultEnv  string `yaml:"default_env"`
		ComposeFile string `yaml:"compose_file"`
	} `yaml:"project"`

	Prerequisites struct {
		Required []string `yaml:"required"`
		Optional []string `yaml:"optional"`
	} `yaml:"prerequisites"`

	Services struct {
		// Primary is the service whose published port anchors the
		// environment's port calculations
		Primary string   `yaml:"primary"`
		Known   []string `yaml:"known"`
	} `yaml:"services"`

	Ports struct {
		BackendBase int   `yaml:"backend_base"`
		WebUIBase   int   `yaml:"webui_base"`
		Step        int   `yaml:"step"`
		Exclude     []int `yaml:"exclude"`
	} `yaml:"ports"`

	Naming struct {
		// Pattern supports {project_name}, {env_name} and {service_name}
		// placeholders
		Pattern string `yaml:"pattern"`
	} `yaml:"naming"`

	Worktrees struct {
		Directory string `yaml:"directory"`
	} `yaml:"worktrees"`

	Provision struct {
		// Command is the external build/provision step that creates and
		// starts an environment's containers for the first time
		Command string `yaml:"command"`
	} `yaml:"provision"`

	Tailscale struct {
		Enabled  bool   `yaml:"enabled"`
		Hostname string `yaml:"hostname"`
	} `yaml:"tailscale"`
}

// New creates a new configuration manager
func New() *Manager {
	return &Manager{
		Project: DefaultProjectConfig(),
	}
}

// DefaultProjectConfig returns project defaults for the ushadow stack
func DefaultProjectConfig() *ProjectConfig {
	cfg := &ProjectConfig{}
	cfg.Project.Name = "ushadow"
	cfg.Project.DefaultEnv = "default"
	cfg.Project.ComposeFile = "docker-compose.yml"
	cfg.Services.Primary = "backend"
	cfg.Services.Known = []string{"backend", "webui", "frontend", "worker", "tailscale", "redis", "postgres"}
	cfg.Ports.BackendBase = constants.DefaultBackendBasePort
	cfg.Ports.WebUIBase = constants.DefaultWebUIBasePort
	cfg.Ports.Step = constants.PortOffsetStep
	cfg.Naming.Pattern = "{project_name}-{env_name}-{service_name}"
	cfg.Provision.Command = "./scripts/setup-environment.sh"
	return cfg
}

// Load loads the project configuration from the given root, falling back to
// defaults when the file does not exist
func (m *Manager) Load(projectRoot string) error {
	cfg, err := ParseProjectConfig(projectRoot)
	if err != nil {
		if errors.HasCode(err, errors.ErrConfigNotFound) {
			m.Project = DefaultProjectConfig()
			return nil
		}
		return err
	}

	m.Project = cfg

	global, err := LoadGlobalConfig()
	if err != nil {
		return err
	}
	m.Global = global

	return nil
}

// ParseProjectConfig reads and parses .launcher-config.yaml in dir
func ParseProjectConfig(dir string) (*ProjectConfig, error) {
	path := filepath.Join(dir, ProjectConfigFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewWithDetails(errors.ErrConfigNotFound, "project config not found", path)
		}
		return nil, errors.Wrap(errors.ErrConfigParse, "failed to read project config", err)
	}

	cfg := DefaultProjectConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, "failed to parse project config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the parsed configuration for inconsistencies
func (c *ProjectConfig) Validate() error {
	if c.Project.Name == "" {
		return errors.New(errors.ErrConfigValidation, "project.name is required")
	}
	if c.Services.Primary == "" {
		return errors.New(errors.ErrConfigValidation, "services.primary is required")
	}
	if c.Ports.BackendBase < constants.WebUIPortDelta {
		return errors.NewWithDetails(errors.ErrConfigValidation,
			"ports.backend_base too low",
			fmt.Sprintf("must be at least %d", constants.WebUIPortDelta))
	}
	if c.Ports.Step <= 0 {
		return errors.New(errors.ErrConfigValidation, "ports.step must be positive")
	}
	if c.Naming.Pattern != "" && !strings.Contains(c.Naming.Pattern, "{service_name}") {
		return errors.New(errors.ErrConfigValidation, "naming.pattern must contain {service_name}")
	}
	return nil
}

// ContainerName expands the naming pattern for a service in an environment.
// The default environment drops the {env_name} segment and its separator,
// producing the unsuffixed <project>-<service> form.
func (c *ProjectConfig) ContainerName(envName, serviceName string) string {
	pattern := c.Naming.Pattern
	if pattern == "" {
		pattern = "{project_name}-{env_name}-{service_name}"
	}

	if envName == c.DefaultEnvName() {
		pattern = strings.ReplaceAll(pattern, "-{env_name}", "")
		pattern = strings.ReplaceAll(pattern, "{env_name}-", "")
		pattern = strings.ReplaceAll(pattern, "{env_name}", "")
	}

	name := strings.ReplaceAll(pattern, "{project_name}", c.Project.Name)
	name = strings.ReplaceAll(name, "{env_name}", envName)
	name = strings.ReplaceAll(name, "{service_name}", serviceName)
	return name
}

// ComposeProject returns the compose project label value for an environment
func (c *ProjectConfig) ComposeProject(envName string) string {
	if envName == c.DefaultEnvName() {
		return c.Project.Name
	}
	return fmt.Sprintf("%s-%s", c.Project.Name, envName)
}

// DefaultEnvName returns the configured default environment name
func (c *ProjectConfig) DefaultEnvName() string {
	if c.Project.DefaultEnv == "" {
		return "default"
	}
	return c.Project.DefaultEnv
}

// IsKnownService reports whether name is one of the declared compose services
func (c *ProjectConfig) IsKnownService(name string) bool {
	for _, s := range c.Services.Known {
		if s == name {
			return true
		}
	}
	return false
}

// IsPortExcluded reports whether a port is on the exclude list
func (c *ProjectConfig) IsPortExcluded(port int) bool {
	for _, p := range c.Ports.Exclude {
		if p == port {
			return true
		}
	}
	return false
}

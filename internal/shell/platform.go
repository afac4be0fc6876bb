package shell

import "runtime"

// Platform identifies the host operating system family
type Platform string

const (
	PlatformMacOS       Platform = "macos"
	PlatformLinux       Platform = "linux"
	PlatformWindows     Platform = "windows"
	PlatformUnsupported Platform = "unsupported"
)

// PlatformOps abstracts the per-OS differences of running external tools.
// A single implementation is selected at startup and injected everywhere;
// callers never branch on runtime.GOOS themselves.
type PlatformOps interface {
	// Platform returns the platform this implementation targets
	Platform() Platform

	// WrapShell wraps a raw shell line in the platform's shell invocation
	WrapShell(command string) (name string, args []string)

	// OpenURLCommand returns the command that opens a URL in the default browser
	OpenURLCommand(url string) (name string, args []string)
}

type unixOps struct {
	platform Platform
	opener   string
}

func (o *unixOps) Platform() Platform { return o.platform }

func (o *unixOps) WrapShell(command string) (string, []string) {
	return "sh", []string{"-c", command}
}

func (o *unixOps) OpenURLCommand(url string) (string, []string) {
	return o.opener, []string{url}
}

type windowsOps struct{}

func (o *windowsOps) Platform() Platform { return PlatformWindows }

func (o *windowsOps) WrapShell(command string) (string, []string) {
	return "cmd", []string{"/C", command}
}

func (o *windowsOps) OpenURLCommand(url string) (string, []string) {
	return "cmd", []string{"/C", "start", url}
}

type unsupportedOps struct{}

func (o *unsupportedOps) Platform() Platform { return PlatformUnsupported }

func (o *unsupportedOps) WrapShell(command string) (string, []string) {
	return "sh", []string{"-c", command}
}

func (o *unsupportedOps) OpenURLCommand(url string) (string, []string) {
	return "sh", []string{"-c", "true"}
}

// DetectPlatform returns the PlatformOps implementation for the current host
func DetectPlatform() PlatformOps {
	switch runtime.GOOS {
	case "darwin":
		return &unixOps{platform: PlatformMacOS, opener: "open"}
	case "linux":
		return &unixOps{platform: PlatformLinux, opener: "xdg-open"}
	case "windows":
		return &windowsOps{}
	default:
		return &unsupportedOps{}
	}
}

// Package linkopen hands URLs to the desktop environment's opener.
package linkopen

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Runner executes the opener command. Injectable for tests; the
// default starts the process detached and does not wait for it.
type Runner func(name string, args ...string) error

func defaultRunner(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Opener launches URLs with the platform opener.
type Opener struct {
	run Runner
}

// New returns an Opener using the platform command.
func New() *Opener {
	return &Opener{run: defaultRunner}
}

// NewWithRunner returns an Opener with a custom runner.
func NewWithRunner(run Runner) *Opener {
	return &Opener{run: run}
}

// Open hands the URL to the platform opener. Only http(s), mailto and
// file targets are passed through; anything else is refused so a
// crafted document cannot run arbitrary schemes.
func (o *Opener) Open(url string) error {
	if !Openable(url) {
		return fmt.Errorf("refusing to open %q: unsupported scheme", url)
	}

	switch runtime.GOOS {
	case "darwin":
		return o.run("open", url)
	case "windows":
		return o.run("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return o.run("xdg-open", url)
	}
}

// Openable reports whether the target carries a scheme the opener
// accepts. Relative targets (intra-document or filesystem paths) are
// not openable.
func Openable(url string) bool {
	for _, prefix := range []string{"http://", "https://", "mailto:", "file://"} {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

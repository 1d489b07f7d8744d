package visualization

import (
	"fmt"
	"os/exec"
	"runtime"
)

// browserCommands maps GOOS to the command that opens a URL in the
// default browser.
var browserCommands = map[string][]string{
	"linux":   {"xdg-open"},
	"darwin":  {"open"},
	"windows": {"cmd", "/c", "start"},
}

// OpenBrowser opens the URL in the user's default browser. The command
// is started without waiting for it to exit.
func OpenBrowser(url string) error {
	argv, ok := browserCommands[runtime.GOOS]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	argv = append(append([]string{}, argv...), url)
	return exec.Command(argv[0], argv[1:]...).Start()
}

package movies

import (
	"errors"
	"os/exec"
	"runtime"
)

var errNoURL = errors.New("movie has no url")

// OpenBrowser opens a URL in the default browser
func OpenBrowser(url string) error {
	if url == "" {
		return errNoURL
	}

	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start"}
	case "darwin":
		cmd = "open"
	default: // "linux", "freebsd", etc.
		cmd = "xdg-open"
	}
	args = append(args, url)

	return exec.Command(cmd, args...).Start()
}

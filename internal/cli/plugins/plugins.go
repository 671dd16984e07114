// Package plugins provides exec-based plugin support for billscan.
// Plugins are separate binaries named billscan-<command> that are discovered
// and executed when an unknown command is invoked.
//
// This follows the same pattern used by kubectl and git for plugins.
package plugins

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// KnownPlugins lists plugins that have official implementations available.
// These get special error messages directing users where to obtain them.
var KnownPlugins = map[string]string{
	"ocr": "Extract text from receipt images. Available at: https://github.com/billscan/billscan-ocr",
}

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// searchDirs returns the directories checked for plugin binaries before
// falling back to PATH: the directory holding the billscan binary, then
// ~/.billscan/plugins/.
func searchDirs() []string {
	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(homeDir, ".billscan", "plugins"))
	}
	return dirs
}

// FindPlugin searches for a plugin binary named billscan-<command>,
// checking the binary's own directory, then ~/.billscan/plugins/, then
// PATH. Returns the full path to the plugin binary if found.
func FindPlugin(command string) (string, error) {
	pluginName := "billscan-" + command

	for _, dir := range searchDirs() {
		candidate := filepath.Join(dir, pluginName)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(pluginName); err == nil {
		return path, nil
	}

	return "", ErrPluginNotFound
}

// Execute runs a plugin with the given arguments, connecting stdin,
// stdout and stderr to the plugin process. Returns the plugin's exit code.
func Execute(pluginPath string, args []string) int {
	cmd := exec.Command(pluginPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing plugin: %v\n", err)
		return 1
	}
	return 0
}

// FormatNotFoundError returns a helpful error message when a plugin is not found.
// If the command is a known plugin, includes information about where to get it.
func FormatNotFoundError(command string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "unknown command %q for \"billscan\"\n", command)

	if info, ok := KnownPlugins[command]; ok {
		fmt.Fprintf(&sb, "\n%q is available as a plugin.\n", command)
		sb.WriteString(info)
		sb.WriteString("\n\nInstall the plugin binary as one of:\n")
	} else {
		sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	}

	fmt.Fprintf(&sb, "  - billscan-%s in the same directory as billscan\n", command)
	fmt.Fprintf(&sb, "  - ~/.billscan/plugins/billscan-%s\n", command)
	fmt.Fprintf(&sb, "  - billscan-%s anywhere in your PATH\n", command)

	sb.WriteString("\nRun 'billscan --help' for usage.")

	return sb.String()
}

// isExecutable reports whether path is a regular file with any execute
// bit set.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Mode()&0111 != 0
}

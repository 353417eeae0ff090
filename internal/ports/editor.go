package ports

import "os/exec"

// EditorOpener opens files in the user's external editor.
type EditorOpener interface {
	// Command returns the editor process for path, for use with
	// tea.ExecProcess.
	Command(path string) (*exec.Cmd, error)
}

package submission

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ClipboardWriter copies a submission block for the operator. Injected so
// tests can use an in-memory clipboard.
type ClipboardWriter interface {
	Write(text string) error
}

// FileDownloader saves a submission block to disk and returns the final path.
type FileDownloader interface {
	Download(filename, content string) (string, error)
}

// ExecClipboard shells out to the platform clipboard tool: pbcopy on macOS,
// wl-copy or xclip on Linux.
type ExecClipboard struct{}

func (ExecClipboard) Write(text string) error {
	var candidates [][]string
	switch runtime.GOOS {
	case "darwin":
		candidates = [][]string{{"pbcopy"}}
	default:
		candidates = [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
		}
	}

	for _, argv := range candidates {
		if _, err := exec.LookPath(argv[0]); err != nil {
			continue
		}
		cmd := exec.Command(argv[0], argv[1:]...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("copy via %s: %w", argv[0], err)
		}
		return nil
	}
	return fmt.Errorf("no clipboard tool found (tried pbcopy/wl-copy/xclip)")
}

// DirDownloader writes submission files into a fixed directory.
type DirDownloader struct {
	Dir string
}

func (d DirDownloader) Download(filename, content string) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure download dir: %w", err)
	}
	path := filepath.Join(d.Dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write submission file: %w", err)
	}
	return path, nil
}

//go:build windows

package clipboard

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/lajidonggua/ClipBox/internal/datauri"
)

// imageProbeScript saves a clipboard image to a uniquely named temp file,
// prints its base64 on stdout, and cleans up after itself. No output means no
// image on the clipboard.
const imageProbeScript = `
$tempPath = [System.IO.Path]::GetTempFileName() + '.png'
try {
    $image = Get-Clipboard -Format Image
    if ($image -ne $null) {
        $image.Save($tempPath, [System.Drawing.Imaging.ImageFormat]::Png)
        $bytes = [System.IO.File]::ReadAllBytes($tempPath)
        Write-Output ([System.Convert]::ToBase64String($bytes))
    }
} catch {
} finally {
    if (Test-Path $tempPath) { Remove-Item $tempPath -Force }
}
`

// windowsPort reads and writes text through the Win32 clipboard API (atotto)
// and transfers images by shelling to powershell.
type windowsPort struct{}

// New returns the Windows clipboard port.
func New() (Port, error) {
	return &windowsPort{}, nil
}

func (p *windowsPort) Read() (Sample, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return Sample{}, &ExecError{Utility: "clipboard API", Err: err}
	}
	if strings.TrimSpace(text) != "" {
		return Sample{Kind: KindText, Content: text}, nil
	}

	// The probe script swallows its own errors; empty output means no image.
	out, err := exec.Command("powershell", "-NoProfile", "-Command", imageProbeScript).Output()
	if err != nil {
		return Sample{Kind: KindNone}, nil
	}
	encoded := strings.TrimSpace(string(out))
	if encoded == "" {
		return Sample{Kind: KindNone}, nil
	}
	return Sample{Kind: KindImage, Content: datauri.Prefix + encoded}, nil
}

func (p *windowsPort) WriteText(content string) error {
	if err := clipboard.WriteAll(content); err != nil {
		return &ExecError{Utility: "clipboard API", Err: err}
	}
	return nil
}

func (p *windowsPort) WriteImageFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	// Single quotes in a powershell literal are escaped by doubling.
	quoted := strings.ReplaceAll(path, "'", "''")
	cmd := exec.Command("powershell", "-NoProfile", "-Command",
		fmt.Sprintf("Set-Clipboard -Path '%s'", quoted))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &ExecError{Utility: "powershell", Stderr: strings.TrimSpace(string(out)), Err: err}
	}
	return nil
}

func (p *windowsPort) Close() error { return nil }

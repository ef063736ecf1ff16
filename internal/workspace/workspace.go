// Package workspace manages the directory generated reports are written to.
//
// Directory layout:
//
//	~/.aimaturity/reports/
//	    <partner>_AI_Maturity_Assessment_Report.<ext>   # one per partner and format
//	    aimaturity.log                                  # log of interactive runs
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"unicode"
)

const (
	// ReportSuffix ends every report file name, before the extension.
	ReportSuffix = "_AI_Maturity_Assessment_Report"
	// FallbackName replaces a partner name with nothing usable in it.
	FallbackName = "AI_Maturity_Assessment"
	// LogName is the log file used while the terminal UI owns the screen.
	LogName = "aimaturity.log"
)

// Workspace is an output directory.
type Workspace struct {
	Dir string
}

// DefaultDir returns ~/.aimaturity/reports.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".aimaturity", "reports"), nil
}

// Open returns the workspace at dir, creating it if needed. An empty dir
// means DefaultDir.
func Open(dir string) (*Workspace, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", dir, err)
	}
	return &Workspace{Dir: dir}, nil
}

// ReportFilename derives the report file name for partner. Only letters,
// digits, spaces, '-' and '_' survive; an empty result falls back to
// FallbackName.
func ReportFilename(partner, ext string) string {
	var b strings.Builder
	for _, r := range partner {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	base := strings.TrimSpace(b.String())
	if base == "" {
		base = FallbackName
	}
	return base + ReportSuffix + "." + strings.TrimPrefix(ext, ".")
}

// Path returns the absolute location of name inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Write stores data under name, replacing any existing file. Readers never
// see a partially written report.
func (w *Workspace) Write(name string, data []byte) (string, error) {
	if name == "" || filepath.Base(name) != name {
		return "", fmt.Errorf("invalid report name %q", name)
	}
	path := w.Path(name)
	if err := atomicWriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

// Report is a generated report found in the workspace.
type Report struct {
	Name    string
	Size    int64
	ModTime int64
}

// List returns the reports in the workspace, sorted by name.
func (w *Workspace) List() ([]Report, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workspace: %w", err)
	}
	var out []Report
	for _, e := range entries {
		if e.IsDir() || !isReport(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		out = append(out, Report{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime().Unix()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func isReport(name string) bool {
	ext := filepath.Ext(name)
	return ext != "" && strings.HasSuffix(strings.TrimSuffix(name, ext), ReportSuffix)
}

// OpenLog opens the workspace log file for appending.
func (w *Workspace) OpenLog() (*os.File, error) {
	f, err := os.OpenFile(w.Path(LogName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}

func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	keep := false
	defer func() {
		_ = tmp.Close()
		if !keep {
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file into place: %w", err)
	}
	keep = true

	// Directories cannot be synced on Windows.
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open workspace dir: %w", err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("fsync workspace dir: %w", err)
	}
	return nil
}

package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "do",
		Short:         "Development tools for the Vision Log server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(DevCmd())
	root.AddCommand(MigrateCmd())
	return root
}

// sourceDirs hold everything bin/do is built from.
var sourceDirs = []string{"cmd/do", "internal/config", "internal/db"}

// Reexec rebuilds bin/do and replaces the running process when any of its
// sources changed after the binary was built. Only a binary named bin/do is
// considered, so `go run ./cmd/do` never rebuilds.
func Reexec() {
	exe, err := os.Executable()
	if err != nil || !strings.HasSuffix(exe, filepath.Join("bin", "do")) {
		return
	}
	info, err := os.Stat(exe)
	if err != nil || !stale(info.ModTime(), sourceDirs...) {
		return
	}

	fmt.Println("Rebuilding bin/do...")
	if err := goBuild(exe, "./cmd/do"); err != nil {
		fmt.Println("Rebuild failed:", err)
		return
	}
	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		fmt.Println("Re-exec failed:", err)
	}
}

// stale reports whether any .go or .sql file under dirs is newer than built.
func stale(built time.Time, dirs ...string) bool {
	newer := false
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if ext := filepath.Ext(path); ext != ".go" && ext != ".sql" {
				return nil
			}
			if info, err := d.Info(); err == nil && info.ModTime().After(built) {
				newer = true
				return filepath.SkipAll
			}
			return nil
		})
		if newer {
			return true
		}
	}
	return false
}

func goBuild(out, pkg string) error {
	build := exec.Command("go", "build", "-o", out, pkg)
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	return build.Run()
}

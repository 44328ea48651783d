package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
)

func DevCmd() *cobra.Command {
	var port int
	var noReload bool
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the server in development mode, reloading on change when air is installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := devEnv(os.Environ(), port)

			airPath, err := exec.LookPath("air")
			if noReload || err != nil {
				if err != nil {
					fmt.Println("air not found, running without reload")
					fmt.Println("  go install github.com/air-verse/air@latest")
				}
				return runOnce(env)
			}
			return syscall.Exec(airPath, airArgs(), env)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8090, "Port the server listens on")
	cmd.Flags().BoolVar(&noReload, "no-reload", false, "Run once without watching for changes")
	return cmd
}

// devEnv sets PORT and APP_ENV unless the caller already exported them.
func devEnv(base []string, port int) []string {
	env := append([]string{}, base...)
	if _, ok := os.LookupEnv("PORT"); !ok {
		env = append(env, "PORT="+strconv.Itoa(port))
	}
	if _, ok := os.LookupEnv("APP_ENV"); !ok {
		env = append(env, "APP_ENV=development")
	}
	return env
}

func airArgs() []string {
	return []string{
		"air",
		"-c", "/dev/null",
		"-root", ".",
		"-build.cmd", "go build -o ./tmp/server ./cmd/server",
		"-build.bin", "./tmp/server",
		"-build.delay", "100",
		"-build.exclude_dir", "bin,tmp,data,_examples",
		"-build.exclude_regex", "_test.go$",
		"-build.include_ext", "go,sql",
		"-build.kill_delay", "500ms",
		"-build.send_interrupt", "true",
	}
}

func runOnce(env []string) error {
	server := exec.Command("go", "run", "./cmd/server")
	server.Env = env
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr
	if err := server.Run(); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

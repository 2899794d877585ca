package handlers

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/Plork/PSDepend/internal/dependency"
	"github.com/Plork/PSDepend/internal/types"
)

// GoModuleHandler installs Go tools with "go install name@version". Target,
// when set, becomes GOBIN for the install and the directory Test checks.
type GoModuleHandler struct {
	// lookGoBinary is a test seam for locating the go tool.
	lookGoBinary func() (string, error)
}

func (h *GoModuleHandler) Name() string {
	return "gomodule"
}

func (h *GoModuleHandler) Description() string {
	return "Installs a Go tool via 'go install <name>@<version>'. The dependency name is the\n" +
		"module path of a main package; version defaults to 'latest'. 'target', when set,\n" +
		"is used as GOBIN. Test checks that the tool's binary exists in the effective bin\n" +
		"directory. Import is not supported."
}

func (h *GoModuleHandler) Supports() []dependency.Action {
	return []dependency.Action{dependency.ActionInstall, dependency.ActionTest}
}

func (h *GoModuleHandler) Install(ctx context.Context, dep dependency.Dependency) error {
	goBin, err := h.goBinary()
	if err != nil {
		return err
	}

	for _, name := range dep.Names {
		version := dep.Version
		if version == "" {
			version = "latest"
		}

		cmd := exec.CommandContext(ctx, goBin, "install", name+"@"+version)
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
		cmd.Env = os.Environ()
		if dep.Target != "" {
			gobin, err := filepath.Abs(dep.Target)
			if err != nil {
				return fmt.Errorf("resolving target %s: %w", dep.Target, err)
			}
			if err := os.MkdirAll(gobin, 0o755); err != nil {
				return fmt.Errorf("creating target %s: %w", gobin, err)
			}
			cmd.Env = append(cmd.Env, "GOBIN="+gobin)
		}

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("go install %s@%s: %w", name, version, err)
		}
	}
	return nil
}

func (h *GoModuleHandler) Import(ctx context.Context, dep dependency.Dependency) error {
	return fmt.Errorf("go modules cannot be imported into the session")
}

func (h *GoModuleHandler) Test(ctx context.Context, dep dependency.Dependency) (bool, error) {
	binDir, err := h.binDir(dep)
	if err != nil {
		return false, err
	}

	for _, name := range dep.Names {
		// The installed binary is named after the last path element of the
		// main package ("golang.org/x/tools/cmd/stringer" -> "stringer").
		binary := filepath.Join(binDir, path.Base(name))
		if _, err := os.Stat(binary); os.IsNotExist(err) {
			return false, nil
		} else if err != nil {
			return false, err
		}
	}
	return true, nil
}

func (h *GoModuleHandler) binDir(dep dependency.Dependency) (string, error) {
	if dep.Target != "" {
		return filepath.Abs(dep.Target)
	}
	if gobin := strings.TrimSpace(os.Getenv("GOBIN")); gobin != "" {
		return gobin, nil
	}
	if gopath := strings.TrimSpace(os.Getenv("GOPATH")); gopath != "" {
		return filepath.Join(gopath, "bin"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving default GOPATH: %w", err)
	}
	return filepath.Join(home, "go", "bin"), nil
}

func (h *GoModuleHandler) goBinary() (string, error) {
	if h.lookGoBinary != nil {
		return h.lookGoBinary()
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		return "", fmt.Errorf("the go tool is required for gomodule dependencies: %w", err)
	}
	return goBin, nil
}

func init() {
	types.Register(&GoModuleHandler{})
}

package handlers

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Plork/PSDepend/internal/dependency"
	"github.com/Plork/PSDepend/internal/types"
)

// FileSystemHandler copies a file or directory from Source to Target.
// Test compares content hashes, so a stale copy reads as not satisfied.
type FileSystemHandler struct{}

func (h *FileSystemHandler) Name() string {
	return "filesystem"
}

func (h *FileSystemHandler) Description() string {
	return "Copies a file or directory from 'source' to 'target'. Test passes only when the\n" +
		"target exists and its content matches the source (sha256). Paths are resolved\n" +
		"relative to the definition file. Import is not supported."
}

func (h *FileSystemHandler) Supports() []dependency.Action {
	return []dependency.Action{dependency.ActionInstall, dependency.ActionTest}
}

func (h *FileSystemHandler) Install(ctx context.Context, dep dependency.Dependency) error {
	src, dst, err := h.resolvePaths(dep)
	if err != nil {
		return err
	}

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("source %s: %w", src, err)
	}
	if info.IsDir() {
		return copyDir(ctx, src, dst)
	}
	return copyFile(src, filepath.Join(dst, filepath.Base(src)))
}

func (h *FileSystemHandler) Import(ctx context.Context, dep dependency.Dependency) error {
	return fmt.Errorf("filesystem dependencies cannot be imported")
}

func (h *FileSystemHandler) Test(ctx context.Context, dep dependency.Dependency) (bool, error) {
	src, dst, err := h.resolvePaths(dep)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("source %s: %w", src, err)
	}
	if info.IsDir() {
		return dirsMatch(ctx, src, dst)
	}
	return filesMatch(src, filepath.Join(dst, filepath.Base(src)))
}

func (h *FileSystemHandler) resolvePaths(dep dependency.Dependency) (src, dst string, err error) {
	if dep.Source == "" {
		return "", "", fmt.Errorf("dependency %s declares no source", dep.DisplayName())
	}
	if dep.Target == "" {
		return "", "", fmt.Errorf("dependency %s declares no target", dep.DisplayName())
	}
	base := filepath.Dir(dep.DefinitionFile)
	src = dep.Source
	if !filepath.IsAbs(src) {
		src = filepath.Join(base, src)
	}
	dst = dep.Target
	if !filepath.IsAbs(dst) {
		dst = filepath.Join(base, dst)
	}
	return src, dst, nil
}

func copyDir(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return out.Close()
}

func dirsMatch(ctx context.Context, src, dst string) (bool, error) {
	match := true
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		ok, err := filesMatch(path, filepath.Join(dst, rel))
		if err != nil {
			return err
		}
		if !ok {
			match = false
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return match, nil
}

func filesMatch(src, dst string) (bool, error) {
	if _, err := os.Stat(dst); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	srcSum, err := hashFile(src)
	if err != nil {
		return false, err
	}
	dstSum, err := hashFile(dst)
	if err != nil {
		return false, err
	}
	return srcSum == dstSum, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func init() {
	types.Register(&FileSystemHandler{})
}

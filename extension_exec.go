package mdtodoc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdtodoc/internal/assets"
	"github.com/alnah/go-mdtodoc/internal/fileutil"
	"github.com/alnah/go-mdtodoc/internal/process"
)

// ExtensionKind is the ResourceError kind reported for unloadable extensions.
const ExtensionKind = "extension"

// ExecExtension is an extension running as an external program.
//
// The program is invoked as "<path> hooks" and must print a JSON array of
// the hook names it implements. Each hook then runs as "<path> <hook>":
// the record is written to stdin as a JSON object and the transformed
// record is read back from stdout.
type ExecExtension struct {
	path  string
	hooks map[Hook]bool
}

// LoadExecExtension checks path and asks the program which hooks it implements.
func LoadExecExtension(ctx context.Context, path string) (*ExecExtension, error) {
	if !fileutil.IsReadable(path) {
		return nil, assets.NewResourceError(ExtensionKind, path, nil)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, assets.NewResourceError(ExtensionKind, path, err)
	}

	out, err := runExtension(ctx, abs, "hooks", nil)
	if err != nil {
		return nil, assets.NewResourceError(ExtensionKind, path, err)
	}

	var names []string
	if err := json.Unmarshal(out, &names); err != nil {
		return nil, assets.NewResourceError(ExtensionKind, path, fmt.Errorf("invalid hooks list (%v)", err))
	}

	ext := &ExecExtension{path: abs, hooks: make(map[Hook]bool, len(names))}
	for _, name := range names {
		hook := Hook(name)
		if !isKnownHook(hook) {
			return nil, assets.NewResourceError(ExtensionKind, path, fmt.Errorf("unknown hook %q", name))
		}
		ext.hooks[hook] = true
	}
	return ext, nil
}

// Path returns the absolute path of the program.
func (e *ExecExtension) Path() string {
	return e.path
}

// Implements reports whether the program declared hook.
func (e *ExecExtension) Implements(hook Hook) bool {
	return e.hooks[hook]
}

// Call runs hook with data and returns the program's record.
func (e *ExecExtension) Call(ctx context.Context, hook Hook, data HookData) (HookData, error) {
	in, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out, err := runExtension(ctx, e.path, string(hook), in)
	if err != nil {
		return nil, err
	}
	var result HookData
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("invalid JSON output: %v", err)
	}
	return result, nil
}

func runExtension(ctx context.Context, path, arg string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, path, arg) // #nosec G204 -- extension path chosen by the user
	process.Isolate(cmd)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, errors.New(msg)
			}
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

func isKnownHook(hook Hook) bool {
	for _, h := range Hooks {
		if h == hook {
			return true
		}
	}
	return false
}

package bonding

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/newtron-network/bondaudit/pkg/runner"
)

// DefaultProcDir is where the bonding driver exposes one status file per bond.
const DefaultProcDir = "/proc/net/bonding"

// StatusReader gives access to the raw per-bond status text.
type StatusReader interface {
	ListBonds(ctx context.Context) ([]string, error)
	ReadStatus(ctx context.Context, bond string) ([]string, error)
}

// ProcReader reads bonding status files from the local filesystem.
type ProcReader struct {
	Dir string
}

// NewProcReader returns a reader rooted at dir, or DefaultProcDir if dir is empty.
func NewProcReader(dir string) *ProcReader {
	if dir == "" {
		dir = DefaultProcDir
	}
	return &ProcReader{Dir: dir}
}

// ListBonds lists the status files in the directory. A missing directory
// means the bonding driver is not loaded, so no bonds.
func (r *ProcReader) ListBonds(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing bonds in %s: %w", r.Dir, err)
	}

	var bonds []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		bonds = append(bonds, e.Name())
	}
	sort.Strings(bonds)
	return bonds, nil
}

// ReadStatus returns the lines of the named bond's status file.
func (r *ProcReader) ReadStatus(ctx context.Context, bond string) ([]string, error) {
	if err := checkBondName(bond); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(r.Dir, bond))
	if err != nil {
		return nil, fmt.Errorf("reading status of %s: %w", bond, err)
	}
	return runner.SplitLines(data), nil
}

// CommandReader reads bonding status through a Runner, typically on a remote
// host. Command failures read as empty output.
type CommandReader struct {
	Runner runner.Runner
	Dir    string
}

// NewCommandReader returns a reader that lists and cats files under dir.
func NewCommandReader(r runner.Runner, dir string) *CommandReader {
	if dir == "" {
		dir = DefaultProcDir
	}
	return &CommandReader{Runner: r, Dir: dir}
}

// ListBonds runs "ls -1" on the bonding directory.
func (r *CommandReader) ListBonds(ctx context.Context) ([]string, error) {
	var bonds []string
	for _, line := range r.Runner.Run(ctx, "ls -1 "+runner.Quote(r.Dir)) {
		if line != "" {
			bonds = append(bonds, line)
		}
	}
	sort.Strings(bonds)
	return bonds, nil
}

// ReadStatus runs "cat" on the named bond's status file.
func (r *CommandReader) ReadStatus(ctx context.Context, bond string) ([]string, error) {
	if err := checkBondName(bond); err != nil {
		return nil, err
	}
	return r.Runner.Run(ctx, "cat "+runner.Quote(path.Join(r.Dir, bond))), nil
}

func checkBondName(bond string) error {
	if bond == "" || bond == "." || bond == ".." || strings.ContainsRune(bond, '/') {
		return fmt.Errorf("invalid bond name %q", bond)
	}
	return nil
}

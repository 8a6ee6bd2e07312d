// Package fstab edits /etc/fstab one NFS entry at a time. Lines it does not
// touch, comments included, are written back verbatim.
package fstab

import (
	"fmt"
	"os"
	"strings"

	"github.com/erikmagkekse/dshare/utils"
)

const FSTypeNFS = "nfs"

type Entry struct {
	Source  string
	Target  string
	FSType  string
	Options string
	Dump    int
	Pass    int
}

// NFSEntry builds the entry for mounting server:remote on target.
func NFSEntry(server, remote, target, options string) Entry {
	return Entry{
		Source:  fmt.Sprintf("%s:%s", server, remote),
		Target:  target,
		FSType:  FSTypeNFS,
		Options: options,
	}
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s %s %s %d %d", e.Source, e.Target, e.FSType, e.Options, e.Dump, e.Pass)
}

// Table holds the raw lines of an fstab file.
type Table struct {
	lines []string
}

func Parse(text string) *Table {
	t := &Table{}
	if text == "" {
		return t
	}
	t.lines = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	return t
}

// parseLine returns the entry on a line, or false for comments, blank lines
// and lines with fewer than two fields.
func parseLine(line string) (Entry, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Entry{}, false
	}
	f := strings.Fields(trimmed)
	if len(f) < 2 {
		return Entry{}, false
	}
	e := Entry{Source: f[0], Target: f[1]}
	if len(f) > 2 {
		e.FSType = f[2]
	}
	if len(f) > 3 {
		e.Options = f[3]
	}
	if len(f) > 4 {
		_, _ = fmt.Sscanf(f[4], "%d", &e.Dump)
	}
	if len(f) > 5 {
		_, _ = fmt.Sscanf(f[5], "%d", &e.Pass)
	}
	return e, true
}

// Add appends e unless an entry with the same source already exists. Options
// of an existing entry are not updated; remove it first to change them.
// It reports whether the table changed.
func (t *Table) Add(e Entry) bool {
	for _, line := range t.lines {
		if existing, ok := parseLine(line); ok && existing.Source == e.Source {
			return false
		}
	}
	t.lines = append(t.lines, e.String())
	return true
}

// Remove drops every entry mounted on target and returns how many were removed.
func (t *Table) Remove(target string) int {
	kept := t.lines[:0]
	removed := 0
	for _, line := range t.lines {
		if e, ok := parseLine(line); ok && e.Target == target {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	t.lines = kept
	return removed
}

// Find returns the first entry mounted on target.
func (t *Table) Find(target string) (Entry, bool) {
	for _, line := range t.lines {
		if e, ok := parseLine(line); ok && e.Target == target {
			return e, true
		}
	}
	return Entry{}, false
}

// FindSource returns the first entry for source.
func (t *Table) FindSource(source string) (Entry, bool) {
	for _, line := range t.lines {
		if e, ok := parseLine(line); ok && e.Source == source {
			return e, true
		}
	}
	return Entry{}, false
}

func (t *Table) Entries() []Entry {
	var out []Entry
	for _, line := range t.lines {
		if e, ok := parseLine(line); ok {
			out = append(out, e)
		}
	}
	return out
}

func (t *Table) Render() string {
	if len(t.lines) == 0 {
		return ""
	}
	return strings.Join(t.lines, "\n") + "\n"
}

// Load reads an fstab file. A missing file yields an empty table.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read fstab: %w", err)
	}
	return Parse(string(data)), nil
}

func (t *Table) Save(path string) error {
	return utils.WriteFileAtomic(path, []byte(t.Render()), utils.FileMode(path, 0644))
}

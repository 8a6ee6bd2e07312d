package exports

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/erikmagkekse/dshare/utils"
)

// Entry is one path+client line of an exports(5) file.
type Entry struct {
	Path    string `json:"path"`
	Client  string `json:"client"`
	Options string `json:"options"`
}

// Key identifies an entry. Path and client stay separate so that
// "/srv/a" + "1.2.3.4" and "/srv/a1" + ".2.3.4" are different exports.
type Key struct {
	Path   string
	Client string
}

func (e Entry) Key() Key { return Key{Path: e.Path, Client: e.Client} }

func (e Entry) String() string {
	return fmt.Sprintf("%s %s(%s)", e.Path, e.Client, e.Options)
}

// Registry is an ordered, keyed set of export entries.
type Registry struct {
	entries []Entry
	index   map[Key]int
}

func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{index: map[Key]int{}}
	for _, e := range entries {
		r.Upsert(e)
	}
	return r
}

// Parse reads exports(5) text. Blank lines and comments are skipped and a
// line may carry several client(options) tokens.
func Parse(text string) (*Registry, error) {
	r := NewRegistry()
	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: export %q has no client", lineNo, fields[0])
		}
		for _, tok := range fields[1:] {
			client, opts := splitClient(tok)
			r.Upsert(Entry{Path: fields[0], Client: client, Options: opts})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// splitClient splits "client(opts)" into its parts.
func splitClient(tok string) (string, string) {
	client, rest, ok := strings.Cut(tok, "(")
	if !ok {
		return tok, ""
	}
	return client, strings.TrimSuffix(rest, ")")
}

// Upsert replaces the options of an existing key in place or appends a new
// entry. It reports whether the registry changed.
func (r *Registry) Upsert(e Entry) bool {
	if i, ok := r.index[e.Key()]; ok {
		if r.entries[i] == e {
			return false
		}
		r.entries[i] = e
		return true
	}
	r.index[e.Key()] = len(r.entries)
	r.entries = append(r.entries, e)
	return true
}

// Remove drops a single path+client entry and reports whether it existed.
func (r *Registry) Remove(path, client string) bool {
	i, ok := r.index[Key{Path: path, Client: client}]
	if !ok {
		return false
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	r.reindex()
	return true
}

// RemoveAll drops every entry exported at exactly path and returns how many
// were removed.
func (r *Registry) RemoveAll(path string) int {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.Path != path {
			kept = append(kept, e)
		}
	}
	removed := len(r.entries) - len(kept)
	r.entries = kept
	r.reindex()
	return removed
}

func (r *Registry) reindex() {
	r.index = make(map[Key]int, len(r.entries))
	for i, e := range r.entries {
		r.index[e.Key()] = i
	}
}

func (r *Registry) Get(path, client string) (Entry, bool) {
	i, ok := r.index[Key{Path: path, Client: client}]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Registry) Len() int { return len(r.entries) }

// Render produces one "path client(options)" line per entry.
func (r *Registry) Render() string {
	var sb strings.Builder
	for _, e := range r.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Load reads an exports file. A missing file yields an empty registry.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewRegistry(), nil
		}
		return nil, fmt.Errorf("read exports: %w", err)
	}
	r, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return r, nil
}

// Save writes the registry atomically, keeping the mode of an existing file.
func (r *Registry) Save(path string) error {
	return utils.WriteFileAtomic(path, []byte(r.Render()), utils.FileMode(path, 0644))
}

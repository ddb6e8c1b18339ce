// internal/words/loader.go
//
// Loading dictionaries from newline-delimited sources.
//
// Each regular file in a dictionary directory is one dictionary, named by its
// file name (e.g. "en-us-5"). Loading is best effort: a file that cannot be
// read or mixes word lengths is recorded in LoadErrors and skipped, so one
// broken list never takes the others down with it.

package words

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// LoadErrors maps a dictionary name to the reason it failed to load.
type LoadErrors map[string]error

func (e LoadErrors) Error() string {
	names := make([]string, 0, len(e))
	for n := range e {
		names = append(names, n)
	}
	sort.Strings(names)
	// each error already names its source (see Load)
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, e[n].Error())
	}
	return "words: failed to load " + strings.Join(parts, "; ")
}

// Read builds a Dictionary from one line-delimited stream.
// Lines starting with '#' are comments.
func Read(r io.Reader) (*Dictionary, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		lines = append(lines, s)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return New(lines)
}

// Load reads a single dictionary file from fsys.
func Load(fsys fs.FS, name string) (*Dictionary, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// LoadFS loads every regular, non-hidden file at the root of fsys.
// The error is non-nil only if the directory itself cannot be listed;
// per-file failures come back in LoadErrors (nil when all loaded).
func LoadFS(fsys fs.FS) (map[string]*Dictionary, LoadErrors, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("words: read dictionary dir: %w", err)
	}

	dicts := make(map[string]*Dictionary, len(entries))
	var failed LoadErrors
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		d, err := Load(fsys, name)
		if err != nil {
			if failed == nil {
				failed = LoadErrors{}
			}
			failed[name] = err
			log.Warn().Err(err).Str("dict", name).Msg("skipping dictionary")
			continue
		}
		dicts[name] = d
		log.Debug().Str("dict", name).Int("words", d.Len()).Int("length", d.WordLength()).Msg("loaded dictionary")
	}
	return dicts, failed, nil
}

// LoadDir is LoadFS over a directory on disk.
func LoadDir(dir string) (map[string]*Dictionary, LoadErrors, error) {
	return LoadFS(os.DirFS(dir))
}

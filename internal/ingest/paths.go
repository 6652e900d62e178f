package ingest

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ParsePaths turns what the user typed into a list of files. Paths are
// separated by spaces; double quotes keep spaces inside a path. A leading ~
// expands to the home directory, globs are expanded and directories are
// walked for presentations. An empty result means the user picked nothing.
func ParsePaths(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, tok := range splitArgs(raw) {
		tok = expandHome(tok)
		matches, _ := filepath.Glob(tok)
		if matches == nil {
			matches = []string{tok}
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.IsDir() {
				add(m)
				continue
			}
			_ = filepath.WalkDir(m, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return nil
				}
				if !d.IsDir() && strings.EqualFold(filepath.Ext(p), Extension) && !strings.HasPrefix(d.Name(), "~$") {
					add(p)
				}
				return nil
			})
		}
	}
	return out
}

func splitArgs(s string) []string {
	var (
		args    []string
		cur     strings.Builder
		quoted  bool
		pending bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			pending = true
		case !quoted && (r == ' ' || r == '\t' || r == '\n'):
			if pending {
				args = append(args, cur.String())
				cur.Reset()
				pending = false
			}
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	if pending && cur.Len() > 0 {
		args = append(args, cur.String())
	}
	return args
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Scan walks root and returns every supported source file, sorted by
// relative path. Ignored directories are pruned without being entered.
func Scan(root string, opts Options) ([]SourceFile, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, abs)
		}
		return nil, fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDir, abs)
	}

	extra := make(map[string]bool, len(opts.ExtraIgnores))
	for _, d := range opts.ExtraIgnores {
		if d = strings.TrimSpace(d); d != "" {
			extra[strings.ToLower(d)] = true
		}
	}
	matcher := compileMatcher(abs, opts)

	var files []SourceFile
	err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries are skipped; the root itself was checked above.
			if d != nil && d.IsDir() && p != abs {
				return filepath.SkipDir
			}
			return nil
		}
		if p == abs {
			return nil
		}

		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if ignoreDir(d.Name(), extra) {
				return filepath.SkipDir
			}
			if matcher != nil && matcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		fi, ok := regularInfo(p, d)
		if !ok {
			return nil
		}
		if ignoreFile(rel) {
			return nil
		}
		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}

		lang := DetectLanguage(d.Name())
		if lang == "" {
			return nil
		}

		files = append(files, SourceFile{
			Path:      p,
			RelPath:   rel,
			Language:  lang,
			IsTest:    IsTestFile(rel),
			SizeBytes: fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", abs, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelPath < files[j].RelPath
	})
	return files, nil
}

// regularInfo returns file info for a regular file or a symlink to one.
// Symlinked directories are not followed.
func regularInfo(p string, d fs.DirEntry) (fs.FileInfo, bool) {
	if d.Type()&fs.ModeSymlink != 0 {
		fi, err := os.Stat(p)
		if err != nil || !fi.Mode().IsRegular() {
			return nil, false
		}
		return fi, true
	}
	if !d.Type().IsRegular() {
		return nil, false
	}
	fi, err := d.Info()
	if err != nil {
		return nil, false
	}
	return fi, true
}

// compileMatcher builds a gitignore matcher from opts, or returns nil when
// there are no patterns to apply.
func compileMatcher(root string, opts Options) *ignore.GitIgnore {
	patterns := append([]string(nil), opts.IgnorePatterns...)
	if opts.UseGitignore {
		if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
			patterns = append(patterns, strings.Split(string(data), "\n")...)
		}
	}
	if len(patterns) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(patterns...)
}

// LanguageBreakdown groups files by language.
func LanguageBreakdown(files []SourceFile) map[string]LanguageStats {
	out := make(map[string]LanguageStats)
	for _, f := range files {
		s := out[f.Language]
		s.Files++
		s.TotalBytes += f.SizeBytes
		if f.IsTest {
			s.TestFiles++
		}
		out[f.Language] = s
	}
	return out
}

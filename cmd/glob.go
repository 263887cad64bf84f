// Copyright © 2024 The XCTLint authors

package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const swiftExt = ".swift"

// expandArgs resolves arguments to Swift source files. A directory, or a
// pattern ending with "/...", expands to every .swift file found
// recursively below it. Other arguments pass through unchanged. Paths
// matching any exclude pattern are dropped; see matchesAny.
func expandArgs(args, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		dir, recursive := strings.CutSuffix(arg, "/...")
		if recursive && dir == "" {
			dir = "."
		}
		if !recursive {
			info, err := os.Stat(arg)
			if err != nil || !info.IsDir() {
				out = append(out, arg)
				continue
			}
			dir = arg
		}
		files, err := findSwiftFiles(dir, excludes)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", arg, err)
		}
		out = append(out, files...)
	}
	return filterExcludes(out, excludes), nil
}

func findSwiftFiles(root string, excludes []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && matchesAny(path, excludes) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == swiftExt {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// filterExcludes drops paths that match any of the exclude patterns.
func filterExcludes(paths, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether path matches a pattern, either as a whole,
// by its base name, or by any single path component.
func matchesAny(path string, patterns []string) bool {
	path = filepath.Clean(path)
	components := splitPath(path)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
		for _, c := range components {
			if ok, _ := filepath.Match(pattern, c); ok {
				return true
			}
		}
	}
	return false
}

// splitPath splits a path into its components.
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(filepath.ToSlash(path), "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return parts
}

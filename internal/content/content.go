// Package content expands content patterns into source files and extracts
// the class-name candidates they use.
//
// Pattern semantics:
//   - patterns are doublestar globs ("./views/**/*.templ") matched
//     case-sensitively; symbolic links are followed
//   - a pattern prefixed with "!" excludes matching files from every other pattern
//   - directories never match
//   - relative matches ignored by the project .gitignore are skipped, as are
//     generated *_templ.go files
package content

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/yacobolo/stylecfg/internal/logging"
)

// Stats tracks file scanning statistics.
type Stats struct {
	FilesDiscovered int // files matched by include patterns
	FilesScanned    int // files left after filtering
	FilesSkipped    int // generated or gitignored files
	FilesExcluded   int // files removed by "!" patterns
	FilesFailed     int // files that could not be read
}

// Location is where a candidate was found.
type Location struct {
	File   string
	Line   int
	Column int    // 1-based column of the class name
	Text   string // trimmed line content
}

// Candidate is one class name found in a source file.
type Candidate struct {
	Class    string
	Location Location
}

var (
	// attribute patterns, most specific first
	attributePatterns = []*regexp.Regexp{
		regexp.MustCompile(`class(?:Name)?="([^"]+)"`),
		regexp.MustCompile(`class(?:Name)?='([^']+)'`),
		regexp.MustCompile(`class(?:Name)?=\{\s*"([^"]+)"`),
	}

	attributeStart    = regexp.MustCompile(`class(?:Name)?=`)
	templClassesMulti = regexp.MustCompile(`templ\.Classes\(([^)]+)\)`)
	templKVMulti      = regexp.MustCompile(`templ\.KV\(([^)]+)\)`)

	commentPattern = regexp.MustCompile(`^\s*//`)
)

// Option configures a Scanner.
type Option func(*Scanner)

// WithGitIgnore reads ignore rules from path instead of ./.gitignore.
// An empty path disables gitignore filtering.
func WithGitIgnore(path string) Option {
	return func(s *Scanner) {
		s.gitIgnorePath = path
	}
}

// WithLogger sets the logger used for unreadable files and scan summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Scanner expands content patterns and extracts class candidates.
type Scanner struct {
	gitIgnorePath string
	logger        *slog.Logger

	gitIgnoreOnce sync.Once
	gitIgnore     *ignore.GitIgnore
}

// NewScanner creates a Scanner.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{gitIgnorePath: ".gitignore", logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// loadGitIgnore loads the ignore file once. A missing file disables filtering.
func (s *Scanner) loadGitIgnore() *ignore.GitIgnore {
	s.gitIgnoreOnce.Do(func() {
		if s.gitIgnorePath == "" {
			return
		}
		gi, err := ignore.CompileIgnoreFile(s.gitIgnorePath)
		if err != nil {
			return
		}
		s.gitIgnore = gi
	})
	return s.gitIgnore
}

// isTemplGenerated reports whether path is a templ-generated Go file.
func isTemplGenerated(path string) bool {
	return strings.HasSuffix(path, "_templ.go") ||
		strings.HasSuffix(path, ".templ.go")
}

// shouldSkipFile reports whether a matched file is generated or gitignored.
// Gitignore rules only apply to relative paths.
func (s *Scanner) shouldSkipFile(path string) bool {
	if isTemplGenerated(path) {
		return true
	}
	if !filepath.IsAbs(path) {
		gi := s.loadGitIgnore()
		if gi != nil && gi.MatchesPath(path) {
			return true
		}
	}
	return false
}

// splitPatterns separates include patterns from "!" exclusions.
func splitPatterns(patterns []string) (includes, excludes []string) {
	for _, p := range patterns {
		if rest, ok := strings.CutPrefix(p, "!"); ok {
			excludes = append(excludes, filepath.Clean(rest))
			continue
		}
		includes = append(includes, p)
	}
	return includes, excludes
}

func excluded(path string, excludes []string) (bool, error) {
	for _, ex := range excludes {
		ok, err := doublestar.PathMatch(ex, path)
		if err != nil {
			return false, fmt.Errorf("exclude pattern %q: %w", ex, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Expand expands patterns to files. Files appear in pattern order, sorted
// within each pattern, each file once.
func (s *Scanner) Expand(patterns []string) ([]string, Stats, error) {
	includes, excludes := splitPatterns(patterns)

	var files []string
	seen := make(map[string]bool)
	stats := Stats{}

	for _, pattern := range includes {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, stats, fmt.Errorf("pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			stats.FilesDiscovered++

			ex, err := excluded(match, excludes)
			if err != nil {
				return nil, stats, err
			}
			switch {
			case ex:
				stats.FilesExcluded++
			case s.shouldSkipFile(match):
				stats.FilesSkipped++
			default:
				files = append(files, match)
				stats.FilesScanned++
			}
		}
	}

	return files, stats, nil
}

// ScanFile returns every class candidate in the file at path, in source order.
func ScanFile(path string) ([]Candidate, error) {
	// #nosec G304 - path comes from configured content patterns
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var out []Candidate
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		out = append(out, extractFromLine(scanner.Text(), lineNum, path)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Candidates scans every file matched by patterns. Unreadable files are
// logged and counted, not fatal.
func (s *Scanner) Candidates(ctx context.Context, patterns []string) ([]Candidate, Stats, error) {
	files, stats, err := s.Expand(patterns)
	if err != nil {
		return nil, stats, err
	}

	var all []Candidate
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		found, err := ScanFile(file)
		if err != nil {
			stats.FilesFailed++
			s.logger.Warn("skipping unreadable file", slog.String("file", file), slog.String("error", err.Error()))
			continue
		}
		all = append(all, found...)
	}

	s.logger.Debug("scanned content",
		slog.Int("discovered", stats.FilesDiscovered),
		slog.Int("scanned", stats.FilesScanned),
		slog.Int("skipped", stats.FilesSkipped),
		slog.Int("excluded", stats.FilesExcluded),
		slog.Int("candidates", len(all)))

	return all, stats, nil
}

// Scan returns the sorted unique class names used by the files matched by patterns.
func (s *Scanner) Scan(ctx context.Context, patterns []string) ([]string, error) {
	found, _, err := s.Candidates(ctx, patterns)
	if err != nil {
		return nil, err
	}
	return Unique(found), nil
}

// Unique returns the sorted distinct class names of candidates.
func Unique(candidates []Candidate) []string {
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !seen[c.Class] {
			seen[c.Class] = true
			out = append(out, c.Class)
		}
	}
	sort.Strings(out)
	return out
}

func extractFromLine(line string, lineNum int, file string) []Candidate {
	if commentPattern.MatchString(line) {
		return nil
	}

	var values []string

	hasTemplClasses := strings.Contains(line, "templ.Classes(")
	hasTemplKV := strings.Contains(line, "templ.KV(")
	if hasTemplClasses {
		for _, m := range templClassesMulti.FindAllStringSubmatch(line, -1) {
			values = append(values, stringArgs(splitTemplArgs(m[1]))...)
		}
	}
	if hasTemplKV {
		for _, m := range templKVMulti.FindAllStringSubmatch(line, -1) {
			// only the first argument names classes
			if parts := splitTemplArgs(m[1]); len(parts) > 0 {
				values = append(values, stringArgs(parts[:1])...)
			}
		}
	}
	if !hasTemplClasses && !hasTemplKV {
		for _, re := range attributePatterns {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				values = append(values, m[1])
			}
		}
	}

	var out []Candidate
	text := strings.TrimSpace(line)
	for _, value := range values {
		for _, class := range strings.Fields(value) {
			out = append(out, Candidate{
				Class: class,
				Location: Location{
					File:   file,
					Line:   lineNum,
					Column: findClassColumn(line, class),
					Text:   text,
				},
			})
		}
	}
	return out
}

// stringArgs returns the contents of the quoted string literals among args.
func stringArgs(args []string) []string {
	var out []string
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if len(arg) >= 2 && strings.HasPrefix(arg, `"`) && strings.HasSuffix(arg, `"`) {
			out = append(out, strings.Trim(arg, `"`))
		}
	}
	return out
}

// splitTemplArgs splits comma-separated arguments outside parentheses.
func splitTemplArgs(s string) []string {
	var parts []string
	var current strings.Builder
	parenDepth := 0

	for _, r := range s {
		switch r {
		case '(':
			parenDepth++
			current.WriteRune(r)
		case ')':
			parenDepth--
			current.WriteRune(r)
		case ',':
			if parenDepth == 0 {
				parts = append(parts, current.String())
				current.Reset()
			} else {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// findClassColumn locates the 1-based column where className starts within
// line, or 0 when it cannot be found. A whole-token match inside a class
// attribute is preferred.
func findClassColumn(line string, className string) int {
	for _, loc := range attributeStart.FindAllStringIndex(line, -1) {
		quoteIdx := strings.IndexAny(line[loc[1]:], `"'`)
		if quoteIdx == -1 {
			continue
		}
		searchStart := loc[1] + quoteIdx + 1

		classesStr := line[searchStart:]
		if endQuote := strings.IndexAny(classesStr, `"'`); endQuote != -1 {
			classesStr = classesStr[:endQuote]
		}
		if idx := indexToken(classesStr, className); idx != -1 {
			return searchStart + idx + 1
		}
	}

	if idx := indexToken(line, className); idx != -1 {
		return idx + 1
	}
	if idx := strings.Index(line, className); idx != -1 {
		return idx + 1
	}
	return 0
}

// indexToken returns the byte offset of token in s where it is delimited by
// whitespace, quotes or the string boundaries.
func indexToken(s, token string) int {
	isDelim := func(b byte) bool {
		return b == ' ' || b == '\t' || b == '"' || b == '\''
	}
	for offset := 0; offset < len(s); {
		idx := strings.Index(s[offset:], token)
		if idx == -1 {
			return -1
		}
		start := offset + idx
		end := start + len(token)
		if (start == 0 || isDelim(s[start-1])) && (end == len(s) || isDelim(s[end])) {
			return start
		}
		offset = start + 1
	}
	return -1
}

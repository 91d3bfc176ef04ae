package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindClassColumn(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		className string
		wantCol   int
	}{
		{
			name:      "single class",
			line:      `<div class="btn">`,
			className: "btn",
			wantCol:   13,
		},
		{
			name:      "multiple classes - first",
			line:      `<div class="btn btn-primary">`,
			className: "btn",
			wantCol:   13,
		},
		{
			name:      "multiple classes - second",
			line:      `<div class="btn btn-primary">`,
			className: "btn-primary",
			wantCol:   17,
		},
		{
			name:      "prefix of a later token",
			line:      `<div class="btn-primary btn">`,
			className: "btn",
			wantCol:   25,
		},
		{
			name:      "with leading spaces",
			line:      `  <div class="btn btn-outline">`,
			className: "btn-outline",
			wantCol:   19,
		},
		{
			name:      "single quotes",
			line:      `<div class='icon nav-item-icon'>`,
			className: "nav-item-icon",
			wantCol:   18,
		},
		{
			name:      "className attribute",
			line:      `<div className="card card-body">`,
			className: "card-body",
			wantCol:   22,
		},
		{
			name:      "class not found",
			line:      `<div class="btn">`,
			className: "nonexistent",
			wantCol:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findClassColumn(tt.line, tt.className)
			require.Equal(t, tt.wantCol, got)
		})
	}
}

func TestIsTemplGenerated(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"internal/web/views/sidebar_templ.go", true},
		{"internal/web/views/sidebar.templ.go", true},
		{"internal/api/handlers.go", false},
		{"internal/web/views/sidebar.templ", false},
		{"internal/templates/handler.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.expected, isTemplGenerated(tt.path), "isTemplGenerated(%q)", tt.path)
		})
	}
}

func TestExtractFromLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"class attribute", `<div class="prose prose-lg">`, []string{"prose", "prose-lg"}},
		{"single quoted", `<p class='text-sm'>`, []string{"text-sm"}},
		{"braced literal", `<div class={ "card shadow" }>`, []string{"card", "shadow"}},
		{"className", `<div className="flex items-center">`, []string{"flex", "items-center"}},
		{"templ.Classes", `<a class={ templ.Classes("btn", "btn-ghost", active) }>`, []string{"btn", "btn-ghost"}},
		{"templ.KV", `<a class={ templ.KV("btn-active", isActive) }>`, []string{"btn-active"}},
		{"comment", `// <div class="ignored">`, nil},
		{"no classes", `<div id="main">`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, c := range extractFromLine(tt.line, 3, "view.templ") {
				got = append(got, c.Class)
				assert.Equal(t, 3, c.Location.Line)
				assert.Equal(t, "view.templ", c.Location.File)
				assert.Positive(t, c.Location.Column)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitPatterns(t *testing.T) {
	includes, excludes := splitPatterns([]string{"./views/**/*.templ", "!./views/legacy/**", "*.html"})
	assert.Equal(t, []string{"./views/**/*.templ", "*.html"}, includes)
	assert.Equal(t, []string{"views/legacy/**"}, excludes)
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	return root
}

func TestScanner_Expand(t *testing.T) {
	root := writeTree(t, map[string]string{
		"views/index.templ":          `<div class="container">`,
		"views/nav.templ":            `<nav class="navbar">`,
		"views/nav_templ.go":         `templ.Classes("navbar")`,
		"views/legacy/old.templ":     `<div class="old">`,
		"views/partials/card.templ":  `<div class="card">`,
		"views/partials/card.templ~": "",
	})
	s := NewScanner(WithGitIgnore(""))

	files, stats, err := s.Expand([]string{
		filepath.Join(root, "views/**/*.templ"),
		filepath.Join(root, "views/*"),
		"!" + filepath.Join(root, "views/legacy/**"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "views/index.templ"),
		filepath.Join(root, "views/nav.templ"),
		filepath.Join(root, "views/partials/card.templ"),
	}, files)
	assert.Equal(t, Stats{FilesDiscovered: 5, FilesScanned: 3, FilesSkipped: 1, FilesExcluded: 1}, stats)
}

func TestScanner_Expand_CaseSensitive(t *testing.T) {
	root := writeTree(t, map[string]string{"Views/index.templ": ""})
	s := NewScanner(WithGitIgnore(""))

	files, _, err := s.Expand([]string{filepath.Join(root, "views/*.templ")})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanner_Expand_BadPattern(t *testing.T) {
	_, _, err := NewScanner(WithGitIgnore("")).Expand([]string{"views/[.templ"})
	require.Error(t, err)
}

func TestScanner_GitIgnore(t *testing.T) {
	root := writeTree(t, map[string]string{
		".gitignore":     "dist/\n",
		"dist/out.html":  `<div class="hidden">`,
		"src/index.html": `<div class="block">`,
	})
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	s := NewScanner()
	files, stats, err := s.Expand([]string{"**/*.html"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("src", "index.html")}, files)
	assert.Equal(t, 1, stats.FilesSkipped)
}

func TestScanner_Scan(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.templ": "<div class=\"prose btn\">\n<span class=\"btn badge\">\n",
		"b.html":  `<p class="prose-lg">`,
	})
	s := NewScanner(WithGitIgnore(""))

	classes, err := s.Scan(context.Background(), []string{filepath.Join(root, "*.templ"), filepath.Join(root, "*.html")})
	require.NoError(t, err)
	assert.Equal(t, []string{"badge", "btn", "prose", "prose-lg"}, classes)

	found, stats, err := s.Candidates(context.Background(), []string{filepath.Join(root, "a.templ")})
	require.NoError(t, err)
	assert.Len(t, found, 4)
	assert.Equal(t, 1, stats.FilesScanned)
	assert.Equal(t, 2, found[2].Location.Line)
}

func TestScanner_Scan_Cancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.html": `<p class="x">`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(WithGitIgnore("")).Scan(ctx, []string{filepath.Join(root, "*.html")})
	require.ErrorIs(t, err, context.Canceled)
}

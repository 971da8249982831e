package category

import (
	"path/filepath"
	"strings"
)

// LanguageFromPath resolves a source file's language name from its
// extension, closing spec.md §9's open question on language detection with
// a fixed lookup table rather than a content-sniffing heuristic: the
// original tracker only ever had a file path to work from (see
// helpers/app.rs's detect_language call site), and a table is the
// deterministic, testable equivalent.
func LanguageFromPath(path string) string {
	if path == "" {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(path))
	ext = strings.TrimPrefix(ext, ".")
	if lang, ok := languageByExt[ext]; ok {
		return lang
	}
	return ""
}

var languageByExt = map[string]string{
	"go":    "Go",
	"rs":    "Rust",
	"py":    "Python",
	"rb":    "Ruby",
	"js":    "JavaScript",
	"jsx":   "JavaScript",
	"ts":    "TypeScript",
	"tsx":   "TypeScript",
	"java":  "Java",
	"kt":    "Kotlin",
	"swift": "Swift",
	"m":     "Objective-C",
	"mm":    "Objective-C++",
	"c":     "C",
	"h":     "C",
	"cpp":   "C++",
	"cc":    "C++",
	"hpp":   "C++",
	"cs":    "C#",
	"php":   "PHP",
	"sh":    "Shell",
	"bash":  "Shell",
	"zsh":   "Shell",
	"sql":   "SQL",
	"html":  "HTML",
	"css":   "CSS",
	"scss":  "SCSS",
	"json":  "JSON",
	"yaml":  "YAML",
	"yml":   "YAML",
	"toml":  "TOML",
	"md":    "Markdown",
	"lua":   "Lua",
	"ex":    "Elixir",
	"exs":   "Elixir",
	"erl":   "Erlang",
	"hs":    "Haskell",
	"scala": "Scala",
	"dart":  "Dart",
	"zig":   "Zig",
}

// Package category implements the agent's pure activity-classification
// function (spec.md §4.8): given a focused app and whatever AX enrichment
// is available for it, decide the entity being worked on, its category,
// and (for editors) the project it belongs to. Resolve never touches the
// network or the filesystem beyond workspace-marker discovery and never
// blocks, so tracker.EventTracker can call it on every window-change tick.
package category

import (
	"os"
	"path/filepath"
	"strings"
)

// Category is the high-level activity bucket recorded on every closed
// span (spec.md §3).
type Category string

const (
	CategoryCoding    Category = "Coding"
	CategoryBrowsing  Category = "Browsing"
	CategoryDebugging Category = "Debugging"
	CategoryCompiling Category = "Compiling"
	CategoryEditing   Category = "Editing"
	CategoryFocusing  Category = "Focusing"
)

// EntityType identifies what kind of thing EntityName refers to.
type EntityType string

const (
	EntityFile   EntityType = "file"
	EntityURL    EntityType = "url"
	EntityWindow EntityType = "window"
	EntityApp    EntityType = "app"
)

// AXExtra carries whatever accessibility-snapshot enrichment the caller
// already resolved for the focused window. Every field is optional: a
// zero value means the cache had nothing current for that app.
type AXExtra struct {
	BrowserDomain     string
	BrowserURL        string
	EditorFilePath    string
	EditorProjectPath string
}

// Window describes the currently focused window, as produced by
// internal/windowwatch.
type Window struct {
	BundleID string
	AppName  string
	Title    string
}

// Result is the classification Resolve produces for one focused window.
type Result struct {
	Category     Category
	EntityType   EntityType
	EntityName   string
	ProjectName  string
	ProjectPath  string
	LanguageName string
}

// workspaceMarkers are files/directories whose presence identifies a
// directory as a project root, checked innermost-directory-first.
var workspaceMarkers = []string{
	".git", "go.mod", "package.json", "Cargo.toml", "Package.swift",
	"pyproject.toml", "*.xcodeproj", "*.xcworkspace",
}

// Resolve classifies the focused window per spec.md §4.8's dispatch
// table: browser bundles resolve to a URL entity, editor bundles resolve
// to a file entity plus project metadata, terminals resolve to an app
// entity named after the AX-reported directory or else the window title,
// and everything else falls back to the window title.
func Resolve(w Window, ax AXExtra) Result {
	switch {
	case IsBrowser(w.BundleID):
		return resolveBrowser(w, ax)
	case IsEditor(w.BundleID):
		return resolveEditor(w, ax)
	case IsTerminal(w.BundleID):
		return resolveTerminal(w, ax)
	default:
		return Result{
			Category:   CategoryFocusing,
			EntityType: EntityWindow,
			EntityName: w.Title,
		}
	}
}

func resolveBrowser(w Window, ax AXExtra) Result {
	name := ax.BrowserDomain
	if name == "" {
		name = ax.BrowserURL
	}
	if name == "" {
		name = w.Title
	}
	return Result{
		Category:   CategoryBrowsing,
		EntityType: EntityURL,
		EntityName: name,
	}
}

func resolveEditor(w Window, ax AXExtra) Result {
	if ax.EditorFilePath == "" {
		return Result{Category: CategoryFocusing, EntityType: EntityWindow, EntityName: w.Title}
	}

	projectPath := ax.EditorProjectPath
	if projectPath == "" {
		projectPath = FindProjectRoot(filepath.Dir(ax.EditorFilePath))
	}

	return Result{
		Category:     editorActivity(w.Title, ax.EditorFilePath),
		EntityType:   EntityFile,
		EntityName:   ax.EditorFilePath,
		ProjectName:  filepath.Base(projectPath),
		ProjectPath:  projectPath,
		LanguageName: LanguageFromPath(ax.EditorFilePath),
	}
}

// editorActivity picks among the editor-specific categories using the
// window title as the only reliable signal an accessibility snapshot
// reliably exposes across editors (spec.md §4.8 names the category set
// without prescribing how to choose among them; resolved here by title
// keyword, the same signal helpers/app.rs's Xcode enrichment already
// reads off the active document title).
func editorActivity(title, filePath string) Category {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "debug"):
		return CategoryDebugging
	case strings.Contains(lower, "build"), strings.Contains(lower, "compil"), strings.Contains(lower, "indexing"):
		return CategoryCompiling
	case filePath != "":
		return CategoryCoding
	default:
		return CategoryEditing
	}
}

func resolveTerminal(w Window, ax AXExtra) Result {
	name := ax.EditorProjectPath
	if name == "" {
		name = w.Title
	}
	return Result{
		Category:   CategoryCoding,
		EntityType: EntityApp,
		EntityName: name,
	}
}

// FindProjectRoot walks upward from dir looking for a workspace marker,
// stopping at the filesystem root. Returns dir unchanged if none is found.
func FindProjectRoot(dir string) string {
	if dir == "" {
		return ""
	}
	current := dir
	for {
		for _, marker := range workspaceMarkers {
			if hasMarker(current, marker) {
				return current
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dir
		}
		current = parent
	}
}

func hasMarker(dir, marker string) bool {
	if strings.Contains(marker, "*") {
		matches, err := filepath.Glob(filepath.Join(dir, marker))
		return err == nil && len(matches) > 0
	}
	_, err := os.Stat(filepath.Join(dir, marker))
	return err == nil
}

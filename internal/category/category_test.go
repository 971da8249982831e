package category

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveBrowserPrefersDomain(t *testing.T) {
	w := Window{BundleID: "com.google.Chrome", AppName: "Google Chrome", Title: "Example Domain"}
	got := Resolve(w, AXExtra{BrowserDomain: "example.com", BrowserURL: "https://example.com/path"})

	if got.Category != CategoryBrowsing {
		t.Fatalf("Category = %s, want Browsing", got.Category)
	}
	if got.EntityType != EntityURL {
		t.Fatalf("EntityType = %s, want url", got.EntityType)
	}
	if got.EntityName != "example.com" {
		t.Fatalf("EntityName = %q, want domain", got.EntityName)
	}
}

func TestResolveBrowserFallsBackToTitleWhenAXEmpty(t *testing.T) {
	w := Window{BundleID: "org.mozilla.firefox", Title: "New Tab"}
	got := Resolve(w, AXExtra{})

	if got.EntityName != "New Tab" {
		t.Fatalf("EntityName = %q, want window title fallback", got.EntityName)
	}
}

func TestResolveEditorWithoutOpenFileIsFocusing(t *testing.T) {
	w := Window{BundleID: "com.microsoft.VSCode", Title: "Welcome"}
	got := Resolve(w, AXExtra{})

	if got.Category != CategoryFocusing {
		t.Fatalf("Category = %s, want Focusing", got.Category)
	}
	if got.EntityType != EntityWindow {
		t.Fatalf("EntityType = %s, want window", got.EntityType)
	}
}

func TestResolveEditorCodingFile(t *testing.T) {
	w := Window{BundleID: "com.microsoft.VSCode", Title: "main.go — skopio-desktop"}
	got := Resolve(w, AXExtra{EditorFilePath: "/p/a/main.go", EditorProjectPath: "/p/a"})

	if got.Category != CategoryCoding {
		t.Fatalf("Category = %s, want Coding", got.Category)
	}
	if got.LanguageName != "Go" {
		t.Fatalf("LanguageName = %q, want Go", got.LanguageName)
	}
	if got.ProjectName != "a" {
		t.Fatalf("ProjectName = %q, want a", got.ProjectName)
	}
}

func TestResolveEditorDebuggingByTitleKeyword(t *testing.T) {
	w := Window{BundleID: "com.apple.dt.Xcode", Title: "Debugging MyApp"}
	got := Resolve(w, AXExtra{EditorFilePath: "/p/App.swift", EditorProjectPath: "/p"})

	if got.Category != CategoryDebugging {
		t.Fatalf("Category = %s, want Debugging", got.Category)
	}
}

func TestResolveEditorCompilingByTitleKeyword(t *testing.T) {
	w := Window{BundleID: "com.apple.dt.Xcode", Title: "Building MyApp"}
	got := Resolve(w, AXExtra{EditorFilePath: "/p/App.swift", EditorProjectPath: "/p"})

	if got.Category != CategoryCompiling {
		t.Fatalf("Category = %s, want Compiling", got.Category)
	}
}

func TestResolveTerminalUsesCurrentDirOrTitle(t *testing.T) {
	w := Window{BundleID: "com.apple.Terminal", Title: "bash — 80x24"}
	got := Resolve(w, AXExtra{})

	if got.Category != CategoryCoding {
		t.Fatalf("Category = %s, want Coding", got.Category)
	}
	if got.EntityType != EntityApp {
		t.Fatalf("EntityType = %s, want app", got.EntityType)
	}
	if got.EntityName != "bash — 80x24" {
		t.Fatalf("EntityName = %q, want title fallback", got.EntityName)
	}
}

func TestResolveDefaultFallsBackToWindowTitle(t *testing.T) {
	w := Window{BundleID: "com.apple.TextEdit", Title: "Notes.txt"}
	got := Resolve(w, AXExtra{})

	if got.Category != CategoryFocusing {
		t.Fatalf("Category = %s, want Focusing", got.Category)
	}
	if got.EntityType != EntityWindow || got.EntityName != "Notes.txt" {
		t.Fatalf("unexpected fallback result: %+v", got)
	}
}

func TestIgnoredApps(t *testing.T) {
	if !Ignored("com.apple.loginwindow") {
		t.Fatal("expected loginwindow to be ignored")
	}
	if Ignored("com.apple.dt.Xcode") {
		t.Fatal("did not expect Xcode to be ignored")
	}
}

func TestLanguageFromPathUnknownExtension(t *testing.T) {
	if got := LanguageFromPath("/tmp/file.xyz123"); got != "" {
		t.Fatalf("LanguageFromPath = %q, want empty for unknown extension", got)
	}
	if got := LanguageFromPath(""); got != "" {
		t.Fatalf("LanguageFromPath(\"\") = %q, want empty", got)
	}
}

func TestFindProjectRootLocatesMarker(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "pkg", "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got := FindProjectRoot(nested)
	if got != root {
		t.Fatalf("FindProjectRoot = %q, want %q", got, root)
	}
}

func TestFindProjectRootNoMarkerReturnsInput(t *testing.T) {
	dir := t.TempDir()
	got := FindProjectRoot(dir)
	if got != dir {
		t.Fatalf("FindProjectRoot = %q, want unchanged %q", got, dir)
	}
}

func TestDetectBranchOutsideRepoReturnsEmpty(t *testing.T) {
	if got := DetectBranch(t.TempDir()); got != "" {
		t.Fatalf("DetectBranch = %q, want empty outside a repo", got)
	}
}

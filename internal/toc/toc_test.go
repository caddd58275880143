package toc

import (
	"os"
	"path/filepath"
	"testing"
)

func writeToc(t *testing.T, root, folder, content string) {
	t.Helper()
	dir := filepath.Join(root, folder)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, folder+".toc"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestNormalizeVersion(t *testing.T) {
	cases := map[string]string{
		"v13.45":        "13.45",
		"V2.0":          "2.0",
		"#1.2.3":        "1.2.3",
		"5.9.1-Retail":  "5.9.1",
		"5.9.1-Cata":    "5.9.1",
		"5.9.1-Era":     "5.9.1",
		"  3.1  ":       "3.1",
		"v 10.0-Retail": "10.0",
		"1.0":           "1.0",
		"":              "",
	}

	for in, want := range cases {
		if got := NormalizeVersion(in); got != want {
			t.Errorf("NormalizeVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadVersionFindsFirstTaggedFolder(t *testing.T) {
	root := t.TempDir()
	writeToc(t, root, "NoTag", "## Title: NoTag\n")
	writeToc(t, root, "Tagged", "## Title: Tagged\n## Version: v2.5-Retail\n")

	got := ReadVersion(root, []string{"Missing", "NoTag", "Tagged"})
	if got != "2.5" {
		t.Fatalf("ReadVersion() = %q, want %q", got, "2.5")
	}
}

func TestReadVersionEmptyWhenNoneTagged(t *testing.T) {
	root := t.TempDir()
	writeToc(t, root, "NoTag", "## Title: NoTag\n")

	if got := ReadVersion(root, []string{"NoTag"}); got != "" {
		t.Fatalf("ReadVersion() = %q, want empty", got)
	}
}

func TestFindAddonFoldersMatchesTitleAndNotes(t *testing.T) {
	root := t.TempDir()
	writeToc(t, root, "WeakAuras", "## Title: WeakAuras\n## Version: 5.9\n")
	writeToc(t, root, "WeakAuras_Options", "## Title: WA Config\n## Notes: Options for WeakAuras\n")
	writeToc(t, root, "Unrelated", "## Title: Something Else\n")

	folders := FindAddonFolders("weakauras", root)
	if len(folders) != 2 {
		t.Fatalf("expected 2 folders, got %v", folders)
	}
	for _, f := range folders {
		if f != "WeakAuras" && f != "WeakAuras_Options" {
			t.Fatalf("unexpected folder %q", f)
		}
	}
}

func TestFindAddonFoldersMissingPath(t *testing.T) {
	if folders := FindAddonFolders("x", filepath.Join(t.TempDir(), "nope")); len(folders) != 0 {
		t.Fatalf("expected no folders, got %v", folders)
	}
}

package covers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"
)

// fileHeader builds a parsed multipart file header the way gin hands it to handlers.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(FieldName, filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write(content)
	writer.Close()

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	return req.MultipartForm.File[FieldName][0]
}

func TestNewStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	store, err := NewStore(dir, 1024)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store.Dir() != dir {
		t.Errorf("expected dir %s, got %s", dir, store.Dir())
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("upload directory was not created")
	}
}

func TestSave(t *testing.T) {
	store, _ := NewStore(t.TempDir(), 1024)

	name, err := store.Save(fileHeader(t, "Cover.PNG", []byte("fake png")))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !regexp.MustCompile(`^coverImage-\d+-\d+\.png$`).MatchString(name) {
		t.Errorf("unexpected filename %q", name)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "fake png" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestSave_RejectsExtension(t *testing.T) {
	store, _ := NewStore(t.TempDir(), 1024)

	_, err := store.Save(fileHeader(t, "cover.svg", []byte("<svg/>")))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}

	entries, _ := os.ReadDir(store.Dir())
	if len(entries) != 0 {
		t.Errorf("expected no files, got %d", len(entries))
	}
}

func TestSave_RejectsOversized(t *testing.T) {
	store, _ := NewStore(t.TempDir(), 4)

	_, err := store.Save(fileHeader(t, "cover.jpg", []byte("too big")))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	store, _ := NewStore(t.TempDir(), 1024)
	name, err := store.Save(fileHeader(t, "cover.gif", []byte("gif")))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := store.Remove(name); err != nil {
		t.Errorf("Remove failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), name)); !os.IsNotExist(err) {
		t.Error("file should be removed")
	}

	if err := store.Remove(name); err != nil {
		t.Errorf("removing a missing file should not fail: %v", err)
	}
	if err := store.Remove(""); err != nil {
		t.Errorf("removing an empty name should not fail: %v", err)
	}
}

func TestRemoveOrphans(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewStore(dir, 1024)

	old := time.Now().Add(-time.Hour)
	for _, name := range []string{"coverImage-1-1.png", "coverImage-2-2.png", "notes.txt"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		_ = os.Chtimes(path, old, old)
	}
	fresh := filepath.Join(dir, "coverImage-3-3.png")
	_ = os.WriteFile(fresh, []byte("x"), 0644)

	removed, err := store.RemoveOrphans([]string{"coverImage-1-1.png"}, 10*time.Minute)
	if err != nil {
		t.Fatalf("RemoveOrphans failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}

	for name, want := range map[string]bool{
		"coverImage-1-1.png": true,
		"coverImage-2-2.png": false,
		"coverImage-3-3.png": true,
		"notes.txt":          true,
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		if exists := err == nil; exists != want {
			t.Errorf("%s: exists=%v, want %v", name, exists, want)
		}
	}
}

package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	t.Run("valid directory", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemLoader() error = %v", err)
		}
		if loader.BasePath() == "" {
			t.Error("BasePath() is empty")
		}
	})

	t.Run("empty path returns error", func(t *testing.T) {
		t.Parallel()

		_, err := NewFilesystemLoader("")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})

	t.Run("file instead of directory returns error", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(filePath, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := NewFilesystemLoader(filePath)
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestFilesystemLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	t.Run("reads file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		want := "<h1>{{ title }}</h1>"
		if err := os.WriteFile(filepath.Join(dir, "movie.html"), []byte(want), 0o644); err != nil {
			t.Fatal(err)
		}
		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatal(err)
		}

		got, err := loader.LoadTemplate(MovieTemplate)
		if err != nil {
			t.Fatalf("LoadTemplate() error = %v", err)
		}
		if got != want {
			t.Errorf("LoadTemplate() = %q, want %q", got, want)
		}
	})

	t.Run("file deleted after construction", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "movie.html")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := loader.LoadTemplate(MovieTemplate); err != nil {
			t.Fatalf("first load error = %v", err)
		}
		if err := os.Remove(path); err != nil {
			t.Fatal(err)
		}

		_, err = loader.LoadTemplate(MovieTemplate)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("error = %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()

		loader, err := NewFilesystemLoader(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		_, err = loader.LoadTemplate("../../etc/passwd")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("error = %v, want ErrInvalidAssetName", err)
		}
	})

	t.Run("symlink escaping base is rejected", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == "windows" {
			t.Skip("symlinks require privileges on windows")
		}

		outside := filepath.Join(t.TempDir(), "secret.html")
		if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
			t.Fatal(err)
		}
		dir := t.TempDir()
		if err := os.Symlink(outside, filepath.Join(dir, "movie.html")); err != nil {
			t.Fatal(err)
		}
		loader, err := NewFilesystemLoader(dir)
		if err != nil {
			t.Fatal(err)
		}

		_, err = loader.LoadTemplate(MovieTemplate)
		if !errors.Is(err, ErrPathTraversal) {
			t.Errorf("error = %v, want ErrPathTraversal", err)
		}
	})
}

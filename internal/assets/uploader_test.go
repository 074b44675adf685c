package assets

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// smallest valid PNG header followed by junk is enough for content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

func newTestUploader(t *testing.T, max int64) *DiskUploader {
	u := NewDiskUploader(t.TempDir(), "https://cost.example.com", max)
	u.now = func() time.Time { return time.Unix(0, 42) }
	return u
}

func TestUploadWritesFileAndReturnsURL(t *testing.T) {
	u := newTestUploader(t, 1024)

	url, err := u.Upload(7, "smash", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if url != "https://cost.example.com/product-images/7/smash-42.png" {
		t.Fatalf("url = %q", url)
	}

	got, err := os.ReadFile(filepath.Join(u.Root, "7", "smash-42.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, pngBytes) {
		t.Fatalf("stored bytes differ")
	}
}

func TestUploadRejections(t *testing.T) {
	u := newTestUploader(t, 16)

	cases := []struct {
		name      string
		productID string
		data      []byte
		want      error
	}{
		{"empty", "smash", nil, ErrEmptyImage},
		{"too large", "smash", pngBytes, ErrTooLarge},
		{"not an image", "smash", []byte("hello"), ErrNotAnImage},
		{"bad id", "../..", []byte("hello"), ErrInvalidOwner},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := u.Upload(1, c.productID, bytes.NewReader(c.data)); !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
}

func TestUploadSanitizesProductID(t *testing.T) {
	u := newTestUploader(t, 1024)
	url, err := u.Upload(3, "../double cheese", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasSuffix(url, "/3/doublecheese-42.png") {
		t.Fatalf("url = %q", url)
	}
}

func TestRemoveDeletesUploadedFile(t *testing.T) {
	u := newTestUploader(t, 1024)
	url, err := u.Upload(7, "smash", bytes.NewReader(pngBytes))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := u.Remove(url); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(u.Root, "7", "smash-42.png")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("file still on disk: %v", err)
	}
	if err := u.Remove(url); err != nil {
		t.Fatalf("second remove: %v", err)
	}

	for _, foreign := range []string{
		"https://elsewhere.example.com/product-images/7/smash-42.png",
		"https://cost.example.com/product-images/7/../../etc/passwd",
		"https://cost.example.com/product-images/x/smash-42.png",
	} {
		if err := u.Remove(foreign); !errors.Is(err, ErrForeignURL) {
			t.Fatalf("remove %q = %v, want ErrForeignURL", foreign, err)
		}
	}
}

package media

import (
	"errors"
	"testing"
)

func TestParseFileType(t *testing.T) {
	if ft, ok := ParseFileType("image"); !ok || ft != FileTypeImage {
		t.Errorf("ParseFileType(image) = %v, %v", ft, ok)
	}

	if ft, ok := ParseFileType("video"); !ok || ft != FileTypeVideo {
		t.Errorf("ParseFileType(video) = %v, %v", ft, ok)
	}

	for _, bad := range []string{"", "audio", "Image", "IMAGE", "document"} {
		if _, ok := ParseFileType(bad); ok {
			t.Errorf("ParseFileType(%q) should not parse", bad)
		}
	}
}

func TestMIMETypeAllowed(t *testing.T) {
	allowed := []string{
		"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp",
		"video/mp4", "video/mpeg", "video/quicktime", "video/x-msvideo", "video/webm",
		"IMAGE/PNG", " image/png ",
	}
	for _, mt := range allowed {
		if !MIMETypeAllowed(mt) {
			t.Errorf("expected %q to be allowed", mt)
		}
	}

	denied := []string{"", "application/pdf", "text/html", "image/svg+xml", "audio/mpeg", "video/ogg"}
	for _, mt := range denied {
		if MIMETypeAllowed(mt) {
			t.Errorf("expected %q to be denied", mt)
		}
	}
}

func TestDeriveFileType(t *testing.T) {
	if DeriveFileType("image/png") != FileTypeImage {
		t.Error("image/png should derive image")
	}

	if DeriveFileType("IMAGE/GIF") != FileTypeImage {
		t.Error("MIME type comparison should be case-insensitive")
	}

	if DeriveFileType("video/mp4") != FileTypeVideo {
		t.Error("video/mp4 should derive video")
	}
}

func TestValidateUpload(t *testing.T) {
	t.Run("accepts allowed type within limit", func(t *testing.T) {
		if err := ValidateUpload("image/png", 1024, 100<<20); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("rejects disallowed type", func(t *testing.T) {
		err := ValidateUpload("application/pdf", 1024, 100<<20)

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rejects zero size", func(t *testing.T) {
		var verr *ValidationError
		if err := ValidateUpload("image/png", 0, 100<<20); !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		var verr *ValidationError
		if err := ValidateUpload("image/png", 200, 100); !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("zero ceiling disables size check", func(t *testing.T) {
		if err := ValidateUpload("image/png", 1<<40, 0); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})
}

func TestErrorUnwrapping(t *testing.T) {
	cause := errors.New("disk full")

	var berr *BackendError
	wrapped := error(&BackendError{Op: "put", Err: cause})
	if !errors.As(wrapped, &berr) || !errors.Is(wrapped, cause) {
		t.Errorf("BackendError should unwrap to its cause")
	}

	var perr *PersistenceError
	wrapped = &PersistenceError{Err: cause}
	if !errors.As(wrapped, &perr) || !errors.Is(wrapped, cause) {
		t.Errorf("PersistenceError should unwrap to its cause")
	}
}

// Package imagefield converts photo input into an in-memory image file.
//
// A photo arrives either as a string (bare base64, or a data URI such as
// "data:image/png;base64,iVBOR...") or as a file the transport already
// decoded (a multipart upload or a *File). Strings are decoded and given a
// generated name; the extension comes from sniffing the decoded bytes.
package imagefield

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidImage reports that the input could not be turned into an image.
// It is a validation failure, never a server error.
var ErrInvalidImage = errors.New("upload a valid image. The file you uploaded was either not an image or a corrupted image")

const (
	dataURIMarker = "data:"
	base64Marker  = ";base64,"

	// nameLength is the length of generated base filenames.
	nameLength = 12

	// maxBaseLength bounds client supplied base names so a stored path
	// ("photos/<base>_xxxxxxx.<ext>") stays well inside the photo column.
	maxBaseLength = 100
)

// File is a named in-memory file ready for storage.
type File struct {
	Name        string
	Content     []byte
	ContentType string
}

// Ext returns the extension of f.Name without the leading dot.
func (f *File) Ext() string {
	return strings.TrimPrefix(filepath.Ext(f.Name), ".")
}

// Size returns the content length in bytes.
func (f *File) Size() int {
	return len(f.Content)
}

// ToInternalValue converts photo input into a *File.
//
// Strings are base64-decoded; *File values are returned unchanged and
// multipart uploads are read into memory with their original base name.
// Whatever the source, the result must sniff as an image.
func ToInternalValue(value any) (*File, error) {
	var (
		file *File
		err  error
	)

	switch v := value.(type) {
	case string:
		file, err = DecodeBase64(v)
	case *string:
		if v == nil {
			return nil, ErrInvalidImage
		}
		file, err = DecodeBase64(*v)
	case *File:
		file = v
	case *multipart.FileHeader:
		file, err = FromUpload(v)
	default:
		return nil, fmt.Errorf("%w: unsupported input %T", ErrInvalidImage, value)
	}
	if err != nil {
		return nil, err
	}

	if file == nil || !isImage(file.ContentType) || file.Ext() == "" {
		return nil, ErrInvalidImage
	}
	return file, nil
}

// DecodeBase64 decodes a bare base64 payload or a data URI.
//
// The returned file's extension is empty when the decoded bytes are not a
// recognizable image; ToInternalValue rejects such files.
func DecodeBase64(data string) (*File, error) {
	if strings.Contains(data, dataURIMarker) && strings.Contains(data, base64Marker) {
		_, data, _ = strings.Cut(data, base64Marker)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	name := GenerateName()
	contentType, ext := FileExtension(decoded)
	if ext != "" {
		name += "." + ext
	}

	return &File{
		Name:        name,
		Content:     decoded,
		ContentType: contentType,
	}, nil
}

// FromUpload reads a multipart upload into memory.
func FromUpload(header *multipart.FileHeader) (*File, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	contentType, ext := FileExtension(content)

	// Keep the client's base name but trust the sniffed extension.
	name := ValidName(header.Filename)
	if ext != "" {
		name += "." + ext
	}

	return &File{
		Name:        name,
		Content:     content,
		ContentType: contentType,
	}, nil
}

// ValidName turns a client filename into a safe base name without
// extension. Accents are folded, spaces become underscores and anything
// outside [A-Za-z0-9._-] is dropped. A generated name is returned when
// nothing usable is left.
func ValidName(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	if i := strings.LastIndexByte(filename, '/'); i >= 0 {
		filename = filename[i+1:]
	}
	filename = strings.TrimSuffix(filename, filepath.Ext(filename))

	folded, _, err := transform.String(accentFolder(), filename)
	if err != nil {
		folded = filename
	}

	var b strings.Builder
	for _, r := range strings.TrimSpace(folded) {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' || r == '-'):
			b.WriteRune(r)
		}
	}

	base := strings.Trim(b.String(), "._-")
	if len(base) > maxBaseLength {
		base = strings.TrimRight(base[:maxBaseLength], "._-")
	}
	if base == "" {
		return GenerateName()
	}
	return base
}

func accentFolder() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// GenerateName returns a 12 character random base filename.
func GenerateName() string {
	return uuid.New().String()[:nameLength]
}

// FileExtension sniffs content and returns its MIME type and extension.
// JPEG is reported as "jpg". The extension is empty for anything that is
// not an image.
func FileExtension(content []byte) (contentType, ext string) {
	mtype := mimetype.Detect(content)
	contentType = mtype.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if !isImage(contentType) {
		return contentType, ""
	}

	ext = strings.TrimPrefix(mtype.Extension(), ".")
	if ext == "jpeg" {
		ext = "jpg"
	}
	return contentType, ext
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// Package filemgr stores uploaded images under the upload directory with
// their metadata stripped and a thumbnail alongside.
package filemgr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/surafelx/portfolio26/logx"
)

// Upload describes a stored image.
type Upload struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Size      int64  `json:"size"`
	MIME      string `json:"mime"`
}

// Store writes into Root and builds URLs under URLPrefix.
type Store struct {
	Root      string
	URLPrefix string
	log       *logx.Logger
}

func NewStore(root, urlPrefix string, log *logx.Logger) *Store {
	return &Store{Root: root, URLPrefix: strings.TrimSuffix(urlPrefix, "/"), log: logx.OrNop(log)}
}

func ParseEntity(s string) (EntityType, error) {
	e := EntityType(strings.ToLower(s))
	if !slices.Contains(Entities, e) {
		return "", fmt.Errorf("%w: %s", ErrUnknownEntity, s)
	}
	return e, nil
}

// ResolvePath is the directory holding pictures of one type for entity.
func (s *Store) ResolvePath(entity EntityType, picType PictureType) string {
	subfolder := PictureSubfolders[picType]
	if subfolder == "" {
		subfolder = "misc"
	}
	return filepath.Join(s.Root, string(entity), subfolder)
}

func (s *Store) url(entity EntityType, picType PictureType, name string) string {
	return path.Join(s.URLPrefix, string(entity), PictureSubfolders[picType], name)
}

// SaveFormFile stores the first file under formKey.
func (s *Store) SaveFormFile(form *multipart.Form, formKey string, entity EntityType) (Upload, error) {
	files := form.File[formKey]
	if len(files) == 0 {
		return Upload{}, fmt.Errorf("%w: %s", ErrMissingFile, formKey)
	}
	file, err := files[0].Open()
	if err != nil {
		return Upload{}, fmt.Errorf("open %s: %w", formKey, err)
	}
	defer file.Close()
	return s.Save(file, files[0].Filename, entity)
}

// Save validates r as an image, re-encodes it without metadata and writes
// a thumbnail ThumbWidth pixels wide.
func (s *Store) Save(r io.Reader, filename string, entity EntityType) (Upload, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(AllowedExtensions[PicPhoto], ext) {
		return Upload{}, fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}

	buf, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}
	if len(buf) > MaxUploadSize {
		return Upload{}, ErrFileTooLarge
	}
	mimeType := http.DetectContentType(buf)
	if !slices.Contains(AllowedMIMEs[PicPhoto], mimeType) {
		return Upload{}, fmt.Errorf("%w: %s", ErrInvalidMIME, mimeType)
	}

	// Check the declared size before allocating pixels.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return Upload{}, fmt.Errorf("%w: %dx%d exceeds %dx%d", ErrInvalidImage, cfg.Width, cfg.Height, MaxDimension, MaxDimension)
	}

	img, format, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	b := img.Bounds()

	// PNG keeps its alpha channel; everything else is stored as JPEG.
	outFormat, outExt := imaging.JPEG, ".jpg"
	if format == "png" {
		outFormat, outExt = imaging.PNG, ".png"
	}
	name := uuid.New().String() + outExt

	var clean bytes.Buffer
	if err := imaging.Encode(&clean, img, outFormat, imaging.JPEGQuality(90)); err != nil {
		return Upload{}, fmt.Errorf("encode %s: %w", name, err)
	}
	if err := s.write(entity, PicPhoto, name, clean.Bytes()); err != nil {
		return Upload{}, err
	}

	thumbName := strings.TrimSuffix(name, outExt) + ".jpg"
	thumb := imaging.Resize(img, ThumbWidth, 0, imaging.Lanczos)
	var thumbBuf bytes.Buffer
	if err := imaging.Encode(&thumbBuf, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return Upload{}, fmt.Errorf("encode thumbnail: %w", err)
	}
	if err := s.write(entity, PicThumb, thumbName, thumbBuf.Bytes()); err != nil {
		return Upload{}, err
	}

	up := Upload{
		URL:       s.url(entity, PicPhoto, name),
		Thumbnail: s.url(entity, PicThumb, thumbName),
		Width:     b.Dx(),
		Height:    b.Dy(),
		Size:      int64(clean.Len()),
		MIME:      mimeType,
	}
	s.log.Info("image stored", "entity", entity, "url", up.URL, "width", up.Width, "height", up.Height, "size", up.Size)
	return up, nil
}

func (s *Store) write(entity EntityType, picType PictureType, name string, data []byte) error {
	dir := s.ResolvePath(entity, picType)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	full := filepath.Join(dir, name)
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", full, err)
	}
	return nil
}

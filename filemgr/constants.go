package filemgr

import "errors"

type EntityType string
type PictureType string

const (
	EntityProject EntityType = "project"
	EntityArticle EntityType = "article"
	EntityNote    EntityType = "note"
	EntityAbout   EntityType = "about"

	PicPhoto PictureType = "photo"
	PicThumb PictureType = "thumb"
)

const (
	MaxUploadSize = 10 << 20
	MaxDimension  = 6000
	ThumbWidth    = 200
)

var (
	Entities = []EntityType{EntityProject, EntityArticle, EntityNote, EntityAbout}

	AllowedExtensions = map[PictureType][]string{
		PicPhoto: {".jpg", ".jpeg", ".png", ".gif", ".webp"},
	}

	AllowedMIMEs = map[PictureType][]string{
		PicPhoto: {"image/jpeg", "image/png", "image/gif", "image/webp"},
	}

	PictureSubfolders = map[PictureType]string{
		PicPhoto: "photo",
		PicThumb: "thumb",
	}

	ErrUnknownEntity    = errors.New("unknown upload entity")
	ErrMissingFile      = errors.New("missing required file")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
	ErrInvalidImage     = errors.New("file is not a readable image")
)

package filemgr

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveWritesImageAndThumbnail(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root, "/static/uploads/", nil)

	up, err := s.Save(bytes.NewReader(encodePNG(t, testImage(400, 100))), "Cover Shot.PNG", EntityProject)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.URL, "/static/uploads/project/photo/"))
	assert.True(t, strings.HasSuffix(up.URL, ".png"))
	assert.True(t, strings.HasPrefix(up.Thumbnail, "/static/uploads/project/thumb/"))
	assert.Equal(t, 400, up.Width)
	assert.Equal(t, 100, up.Height)
	assert.Equal(t, "image/png", up.MIME)

	photo := filepath.Join(root, "project", "photo", filepath.Base(up.URL))
	_, err = os.Stat(photo)
	require.NoError(t, err)

	thumb, err := imaging.Open(filepath.Join(root, "project", "thumb", filepath.Base(up.Thumbnail)))
	require.NoError(t, err)
	assert.Equal(t, ThumbWidth, thumb.Bounds().Dx())
	assert.Equal(t, 50, thumb.Bounds().Dy())
}

func TestSaveStoresJPEGAsJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(50, 50), nil))

	up, err := NewStore(t.TempDir(), "/u", nil).Save(&buf, "a.jpeg", EntityNote)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(up.URL, ".jpg"))
	assert.Equal(t, "/u/note/photo/", up.URL[:len("/u/note/photo/")])
}

func TestSaveRejects(t *testing.T) {
	s := NewStore(t.TempDir(), "/u", nil)

	_, err := s.Save(strings.NewReader("hello"), "notes.txt", EntityNote)
	assert.ErrorIs(t, err, ErrInvalidExtension)

	_, err = s.Save(strings.NewReader("definitely not an image"), "fake.jpg", EntityNote)
	assert.ErrorIs(t, err, ErrInvalidMIME)

	_, err = s.Save(bytes.NewReader(make([]byte, MaxUploadSize+1)), "big.png", EntityNote)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

// hugePNG declares w x h in its header but carries a single pixel of data.
func hugePNG(t *testing.T, w, h uint32) []byte {
	data := encodePNG(t, testImage(1, 1))
	// IHDR data starts after the 8-byte signature, chunk length and type.
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestSaveRejectsOversizedBeforeDecoding(t *testing.T) {
	s := NewStore(t.TempDir(), "/u", nil)

	_, err := s.Save(bytes.NewReader(hugePNG(t, 100000, 100000)), "bomb.png", EntityProject)
	require.ErrorIs(t, err, ErrInvalidImage)
	assert.Contains(t, err.Error(), "100000x100000 exceeds")
}

func TestParseEntity(t *testing.T) {
	e, err := ParseEntity("Article")
	require.NoError(t, err)
	assert.Equal(t, EntityArticle, e)

	_, err = ParseEntity("../etc")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func upload(t *testing.T, router http.Handler, path, field, filename string, data []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadHandler(t *testing.T) {
	s := NewStore(t.TempDir(), "/static/uploads", nil)
	router := httprouter.New()
	router.POST("/api/uploads/:entity", s.UploadHandler(nil))

	img := encodePNG(t, testImage(20, 20))

	rec := upload(t, router, "/api/uploads/article", "photo", "x.png", img)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"url":"/static/uploads/article/photo/`)

	rec = upload(t, router, "/api/uploads/user", "photo", "x.png", img)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, router, "/api/uploads/article", "banner", "x.png", img)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload(t, router, "/api/uploads/article", "photo", "x.exe", img)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

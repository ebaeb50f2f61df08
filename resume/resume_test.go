package resume

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surafelx/portfolio26/models"
)

var profile = models.About{
	Name:     "Ada Lovelace",
	Headline: "Engineer; analyst",
	Summary:  "Writes programs for engines that do not exist yet. Café regular.",
	Skills:   models.Skills{Programming: []string{"Go", "SQL"}, DevOps: []string{"Docker"}},
	Experience: []models.Experience{
		{Company: "Analytical Engines", Position: "Programmer", Dates: "1842 - 1843", Description: []string{"Note G"}},
	},
	Education: models.Education{Institution: "Home", Degree: "Mathematics"},
	Contact:   models.Contact{Email: "ada@example.com", Location: "London"},
	SocialLinks: models.SocialLinks{
		Github: "https://github.com/ada",
	},
}

func TestVCard(t *testing.T) {
	card := VCard(profile, "https://ada.dev")
	assert.Contains(t, card, "BEGIN:VCARD\r\nVERSION:3.0\r\n")
	assert.Contains(t, card, "FN:Ada Lovelace\r\n")
	assert.Contains(t, card, `TITLE:Engineer\; analyst`)
	assert.Contains(t, card, "EMAIL;TYPE=INTERNET:ada@example.com\r\n")
	assert.Contains(t, card, "URL:https://ada.dev\r\n")
	assert.Contains(t, card, "URL:https://github.com/ada\r\n")
	assert.True(t, bytes.HasSuffix([]byte(card), []byte("END:VCARD\r\n")))
}

func TestVCardQRIsPNG(t *testing.T) {
	raw, err := VCardQR(profile, "")
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, qrSize, img.Bounds().Dx())
}

func TestPDF(t *testing.T) {
	doc, err := PDF(profile, "https://ada.dev")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))

	empty, err := PDF(models.About{}, "")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF-")))
}

func TestSkillLines(t *testing.T) {
	assert.Equal(t, []string{"Programming: Go, SQL", "DevOps: Docker"}, skillLines(profile.Skills))
	assert.Empty(t, skillLines(models.Skills{}))
}

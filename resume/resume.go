// Package resume renders the About profile as a printable PDF and as a
// vCard QR code.
package resume

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/surafelx/portfolio26/models"
)

const qrSize = 256

// VCard builds a vCard 3.0 record for the profile owner.
func VCard(a models.About, siteURL string) string {
	name := a.Name
	if name == "" {
		name = "Portfolio"
	}
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + escape(name),
		"N:" + escape(name) + ";;;;",
	}
	if a.Headline != "" {
		lines = append(lines, "TITLE:"+escape(a.Headline))
	}
	if a.Contact.Email != "" {
		lines = append(lines, "EMAIL;TYPE=INTERNET:"+escape(a.Contact.Email))
	}
	if a.Contact.Location != "" {
		lines = append(lines, "ADR;TYPE=WORK:;;"+escape(a.Contact.Location)+";;;;")
	}
	if siteURL != "" {
		lines = append(lines, "URL:"+siteURL)
	}
	for _, u := range []string{a.SocialLinks.Github, a.SocialLinks.Linkedin} {
		if u != "" {
			lines = append(lines, "URL:"+u)
		}
	}
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\r\n") + "\r\n"
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, ",", `\,`, ";", `\;`, "\n", `\n`)
	return r.Replace(s)
}

// VCardQR encodes the profile's vCard as a PNG QR code.
func VCardQR(a models.About, siteURL string) ([]byte, error) {
	png, err := qrcode.Encode(VCard(a, siteURL), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode vcard qr: %w", err)
	}
	return png, nil
}

// PDF lays the profile out on A4 pages with the vCard QR in the header.
func PDF(a models.About, siteURL string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	qr, err := VCardQR(a, siteURL)
	if err != nil {
		return nil, err
	}
	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("vcard", imageOpts, bytes.NewReader(qr))
	pdf.ImageOptions("vcard", 162, 14, 30, 30, false, imageOpts, 0, "")

	name := a.Name
	if name == "" {
		name = "Resume"
	}
	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 10, tr(name))
	pdf.Ln(10)
	if a.Headline != "" {
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 7, tr(a.Headline))
		pdf.Ln(7)
	}
	contact := joinNonEmpty(" | ", a.Contact.Email, a.Contact.Location, siteURL)
	if contact != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(0, 6, tr(contact))
		pdf.Ln(10)
	}

	heading := func(title string) {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 10)
	}

	if a.Summary != "" {
		heading("Summary")
		pdf.MultiCell(0, 5, tr(a.Summary), "", "", false)
	}
	if len(a.Qualifications) > 0 {
		heading("Qualifications")
		for _, q := range a.Qualifications {
			pdf.MultiCell(0, 5, tr("- "+q), "", "", false)
		}
	}
	if skills := skillLines(a.Skills); len(skills) > 0 {
		heading("Skills")
		for _, line := range skills {
			pdf.MultiCell(0, 5, tr(line), "", "", false)
		}
	}
	if len(a.Experience) > 0 {
		heading("Experience")
		for _, e := range a.Experience {
			pdf.SetFont("Arial", "B", 11)
			pdf.MultiCell(0, 6, tr(joinNonEmpty(" - ", e.Position, e.Company)), "", "", false)
			if e.Dates != "" {
				pdf.SetFont("Arial", "I", 9)
				pdf.MultiCell(0, 5, tr(e.Dates), "", "", false)
			}
			pdf.SetFont("Arial", "", 10)
			for _, d := range e.Description {
				pdf.MultiCell(0, 5, tr("- "+d), "", "", false)
			}
			pdf.Ln(2)
		}
	}
	if ed := a.Education; ed.Institution != "" || ed.Degree != "" {
		heading("Education")
		pdf.MultiCell(0, 5, tr(joinNonEmpty(", ", ed.Degree, ed.Institution, ed.Graduation)), "", "", false)
		if ed.GPA != "" {
			pdf.MultiCell(0, 5, tr("GPA: "+ed.GPA), "", "", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render resume pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func skillLines(s models.Skills) []string {
	groups := []struct {
		label string
		items []string
	}{
		{"Programming", s.Programming},
		{"Tools", s.Tools},
		{"Databases", s.Databases},
		{"AI", s.AI},
		{"Testing", s.Testing},
		{"DevOps", s.DevOps},
		{"Other", s.Other},
	}
	var out []string
	for _, g := range groups {
		if len(g.items) > 0 {
			out = append(out, g.label+": "+strings.Join(g.items, ", "))
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package testutil builds small, well-formed PDF fixtures for package tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Rect is a filled black rectangle in PDF user space: x, y, width, height
type Rect [4]float64

// Page describes the content of one fixture page
type Page struct {
	Lines []string // drawn top to bottom in Courier 12pt
	Rects []Rect
}

// Document describes a fixture PDF. A nil Info writes no Info dictionary.
type Document struct {
	Info  map[string]string
	Pages []Page
}

// WritePDF writes doc to dir/name and returns the path
func WritePDF(t testing.TB, dir, name string, doc Document) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, BuildPDF(doc), 0600); err != nil {
		t.Fatalf("failed to write fixture PDF: %v", err)
	}
	return path
}

// BuildPDF renders doc as a PDF 1.4 file with a classic xref table
func BuildPDF(doc Document) []byte {
	var objects []string

	// 1: catalog, 2: page tree, 3: font, then page/content pairs, then info
	pageCount := len(doc.Pages)
	kids := make([]string, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pageCount),
		courierFont(),
	)

	for i, page := range doc.Pages {
		content := pageContent(page)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	infoRef := ""
	if doc.Info != nil {
		var entries []string
		for _, key := range []string{"Title", "Author", "Subject", "Producer", "CreationDate", "ModDate"} {
			if value, ok := doc.Info[key]; ok {
				entries = append(entries, fmt.Sprintf("/%s (%s)", key, escapeString(value)))
			}
		}
		objects = append(objects, fmt.Sprintf("<< %s >>", strings.Join(entries, " ")))
		infoRef = fmt.Sprintf(" /Info %d 0 R", len(objects))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R%s >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, infoRef, xrefOffset)

	return buf.Bytes()
}

// QRRects lays out payload as a QR code whose bottom-left corner is at x, y.
// module is the side of one QR module in points; the quiet zone is included.
func QRRects(payload string, x, y, module float64) ([]Rect, error) {
	matrix, err := qrcode.NewQRCodeWriter().Encode(payload, gozxing.BarcodeFormat_QR_CODE, 1, 1, nil)
	if err != nil {
		return nil, err
	}

	height := matrix.GetHeight()
	var rects []Rect
	for row := 0; row < height; row++ {
		for col := 0; col < matrix.GetWidth(); col++ {
			if matrix.Get(col, row) {
				// Rows count downwards in the matrix and upwards in PDF space
				rects = append(rects, Rect{
					x + float64(col)*module,
					y + float64(height-1-row)*module,
					module,
					module,
				})
			}
		}
	}
	return rects, nil
}

func pageContent(page Page) string {
	var b strings.Builder
	if len(page.Lines) > 0 {
		b.WriteString("BT\n/F1 12 Tf\n72 720 Td\n")
		for i, line := range page.Lines {
			if i > 0 {
				b.WriteString("0 -16 Td\n")
			}
			fmt.Fprintf(&b, "(%s) Tj\n", escapeString(line))
		}
		b.WriteString("ET\n")
	}
	if len(page.Rects) > 0 {
		b.WriteString("0 0 0 rg\n")
		for _, r := range page.Rects {
			fmt.Fprintf(&b, "%.2f %.2f %.2f %.2f re f\n", r[0], r[1], r[2], r[3])
		}
	}
	return b.String()
}

func courierFont() string {
	widths := make([]string, 0, 95)
	for c := 32; c <= 126; c++ {
		widths = append(widths, "600")
	}
	return "<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding " +
		"/FirstChar 32 /LastChar 126 /Widths [" + strings.Join(widths, " ") + "] >>"
}

func escapeString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

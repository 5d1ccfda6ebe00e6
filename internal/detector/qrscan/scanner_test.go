// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package qrscan

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-analyze/internal/observability"
)

func qrImage(t *testing.T, payload string) image.Image {
	t.Helper()
	matrix, err := qrcode.NewQRCodeWriter().Encode(payload, gozxing.BarcodeFormat_QR_CODE, 250, 250, nil)
	require.NoError(t, err)
	return toGray(matrix)
}

func code128Image(t *testing.T, payload string) image.Image {
	t.Helper()
	matrix, err := oned.NewCode128Writer().Encode(payload, gozxing.BarcodeFormat_CODE_128, 300, 80, nil)
	require.NoError(t, err)
	return toGray(matrix)
}

// toGray copies a bit matrix into a white-background grayscale image
func toGray(matrix *gozxing.BitMatrix) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, matrix.GetWidth(), matrix.GetHeight()))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for y := 0; y < matrix.GetHeight(); y++ {
		for x := 0; x < matrix.GetWidth(); x++ {
			if matrix.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return img
}

func blankImage() image.Image {
	img := image.NewGray(image.Rect(0, 0, 200, 200))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func TestScan_SingleQRCode(t *testing.T) {
	scanner := NewScanner(nil)
	payloads := scanner.Scan([]image.Image{qrImage(t, "https://example.com")})
	assert.Equal(t, []string{"https://example.com"}, payloads)
}

func TestScan_SeveralQRCodesOnOnePage(t *testing.T) {
	left := qrImage(t, "https://left.example")
	right := qrImage(t, "https://right.example")

	page := image.NewGray(image.Rect(0, 0, 540, 270))
	draw.Draw(page, page.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(page, left.Bounds().Add(image.Pt(10, 10)), left, image.Point{}, draw.Src)
	draw.Draw(page, right.Bounds().Add(image.Pt(280, 10)), right, image.Point{}, draw.Src)

	payloads := NewScanner(nil).Scan([]image.Image{page})
	assert.ElementsMatch(t, []string{"https://left.example", "https://right.example"}, payloads)
}

func TestScan_ImagesInOrder(t *testing.T) {
	scanner := NewScanner(nil)
	payloads := scanner.Scan([]image.Image{
		qrImage(t, "https://first.example"),
		blankImage(),
		qrImage(t, "https://third.example"),
	})
	assert.Equal(t, []string{"https://first.example", "https://third.example"}, payloads)
}

func TestScan_NoCodes(t *testing.T) {
	scanner := NewScanner(nil)
	assert.Empty(t, scanner.Scan([]image.Image{blankImage(), blankImage()}))
	assert.Empty(t, scanner.Scan(nil))
}

func TestScan_NilImageSkipped(t *testing.T) {
	scanner := NewScanner(nil)
	payloads := scanner.Scan([]image.Image{nil, qrImage(t, "https://example.com")})
	assert.Equal(t, []string{"https://example.com"}, payloads)
}

func TestScan_LinearBarcodeIgnored(t *testing.T) {
	scanner := NewScanner(nil)
	img := code128Image(t, "ABC-12345")

	symbols := scanner.Symbols(img)
	require.Len(t, symbols, 1)
	assert.Equal(t, "CODE128", symbols[0].Type)
	assert.Equal(t, "ABC-12345", string(symbols[0].Data))

	assert.Empty(t, scanner.Scan([]image.Image{img}))
}

func TestSymbols_QRCodeType(t *testing.T) {
	symbols := NewScanner(nil).Symbols(qrImage(t, "hello world"))
	require.Len(t, symbols, 1)
	assert.Equal(t, TypeQRCode, symbols[0].Type)
	assert.Equal(t, "hello world", string(symbols[0].Data))
}

func TestSymbolType(t *testing.T) {
	assert.Equal(t, "QRCODE", SymbolType(gozxing.BarcodeFormat_QR_CODE))
	assert.Equal(t, "CODE128", SymbolType(gozxing.BarcodeFormat_CODE_128))
	assert.Equal(t, "EAN13", SymbolType(gozxing.BarcodeFormat_EAN_13))
}

func TestScan_DebugObserverLogsEachImage(t *testing.T) {
	var buf bytes.Buffer
	scanner := NewScanner(observability.New(observability.ObservabilityDebug, &buf))
	assert.Equal(t, Stage, scanner.GetComponentName())

	scanner.Scan([]image.Image{blankImage(), blankImage()})
	assert.Equal(t, 2, strings.Count(buf.String(), "scanned image"))
}

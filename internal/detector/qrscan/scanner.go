// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package qrscan

import (
	"fmt"
	"image"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"

	"pdf-analyze/internal/observability"
	"pdf-analyze/internal/resilience"
)

// Stage is the component name used in errors and observability
const Stage = "qr_scanner"

// TypeQRCode is the symbol type label of QR codes
const TypeQRCode = "QRCODE"

// Symbol is one decoded barcode region
type Symbol struct {
	Type string
	Data []byte
}

var _ observability.Observable = (*Scanner)(nil)

// Scanner decodes barcodes from page images
type Scanner struct {
	qrMulti  multi.MultipleBarcodeReader
	qrSingle gozxing.Reader
	linear   []gozxing.Reader
	hints    map[gozxing.DecodeHintType]interface{}
	observer *observability.StandardObserver
}

// NewScanner creates a scanner for QR codes and Code 128 linear barcodes
func NewScanner(observer *observability.StandardObserver) *Scanner {
	return &Scanner{
		qrMulti:  multiqr.NewQRCodeMultiReader(),
		qrSingle: qrcode.NewQRCodeReader(),
		linear:   []gozxing.Reader{oned.NewCode128Reader()},
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
		observer: observer,
	}
}

// GetComponentName implements observability.Observable
func (s *Scanner) GetComponentName() string {
	return Stage
}

// Scan returns the payload of every QR code found in images, in image order.
// Images that cannot be decoded are skipped.
func (s *Scanner) Scan(images []image.Image) []string {
	var payloads []string
	for i, img := range images {
		for _, sym := range s.Symbols(img) {
			if sym.Type != TypeQRCode {
				continue
			}
			payloads = append(payloads, string(sym.Data))
		}
		s.logDetail("scanned image %d", i+1)
	}
	return payloads
}

// Symbols decodes every barcode region of img. A decode failure yields no symbols.
func (s *Scanner) Symbols(img image.Image) []Symbol {
	if img == nil {
		return nil
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		s.logFailure(err)
		return nil
	}

	var symbols []Symbol
	results, err := s.qrMulti.DecodeMultiple(bmp, s.hints)
	if err != nil || len(results) == 0 {
		if result, err := s.qrSingle.Decode(bmp, s.hints); err == nil {
			results = []*gozxing.Result{result}
		}
	}
	for _, result := range results {
		symbols = append(symbols, toSymbol(result))
	}

	for _, reader := range s.linear {
		result, err := reader.Decode(bmp, s.hints)
		if err != nil {
			continue
		}
		symbols = append(symbols, toSymbol(result))
	}

	return symbols
}

// SymbolType maps a gozxing format to its symbol type label, e.g. QR_CODE to QRCODE
func SymbolType(format gozxing.BarcodeFormat) string {
	return strings.ReplaceAll(format.String(), "_", "")
}

func toSymbol(result *gozxing.Result) Symbol {
	return Symbol{
		Type: SymbolType(result.GetBarcodeFormat()),
		Data: []byte(result.GetText()),
	}
}

func (s *Scanner) logFailure(err error) {
	if s.observer == nil || s.observer.DebugObserver == nil {
		return
	}
	classified := resilience.NewStageError(Stage, resilience.ErrorTypeBarcodeDecode, err)
	s.observer.DebugObserver.LogDetail(Stage, "skipping image: "+classified.Error())
}

func (s *Scanner) logDetail(format string, args ...interface{}) {
	if s.observer == nil || s.observer.DebugObserver == nil {
		return
	}
	s.observer.DebugObserver.LogDetail(Stage, fmt.Sprintf(format, args...))
}

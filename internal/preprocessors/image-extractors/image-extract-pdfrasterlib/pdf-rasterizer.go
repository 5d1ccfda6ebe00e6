// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package imageextractpdfrasterlib

import (
	"fmt"
	"image"
	"os"

	"github.com/gen2brain/go-fitz"

	"pdf-analyze/internal/resilience"
)

// Stage is the component name used in errors and observability
const Stage = "page_rasterizer"

// DefaultDPI is used when RasterizePages is given a non-positive resolution
const DefaultDPI = 200.0

// RasterizePages renders every page of a PDF to a bitmap, in page order.
// Any failure yields an empty sequence; partially rendered documents are discarded.
func RasterizePages(filePath string, dpi float64) ([]image.Image, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	if _, err := os.Stat(filePath); err != nil {
		return nil, resilience.NewStageError(Stage, resilience.ErrorTypeFileAccess, err)
	}

	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, resilience.NewStageError(Stage, resilience.ErrorTypeRasterization,
			fmt.Errorf("error opening PDF: %w", err))
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	pages := make([]image.Image, 0, pageCount)
	for n := 0; n < pageCount; n++ {
		img, err := doc.ImageDPI(n, dpi)
		if err != nil {
			return nil, resilience.NewStageError(Stage, resilience.ErrorTypeRasterization,
				fmt.Errorf("error rendering page %d: %w", n+1, err))
		}
		pages = append(pages, img)
	}

	return pages, nil
}

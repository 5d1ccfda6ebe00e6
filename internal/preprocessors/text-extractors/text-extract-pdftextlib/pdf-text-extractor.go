// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractpdftextlib

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"pdf-analyze/internal/resilience"
)

// Stage is the component name used in errors and observability
const Stage = "text_extractor"

// ExtractText extracts the text of every page, in page order, as one string.
// Any failure, including a panic inside the PDF library, yields "" and a stage error.
func ExtractText(filePath string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = resilience.PanicError(Stage, r)
		}
	}()

	if _, statErr := os.Stat(filePath); statErr != nil {
		return "", resilience.NewStageError(Stage, resilience.ErrorTypeFileAccess, statErr)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", resilience.ClassifyError(Stage, fmt.Errorf("error opening PDF: %w", err))
	}
	defer f.Close()

	var buf bytes.Buffer
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			return "", resilience.NewStageError(Stage, resilience.ErrorTypeFileAccess,
				fmt.Errorf("page %d: null page object", i))
		}

		buf.WriteString(extractTextWithProperSpacing(p))
	}

	return buf.String(), nil
}

// rowTolerance is how far apart, in points, two glyph baselines may be
// and still belong to the same line
const rowTolerance = 1.0

// textRow is one line of glyphs sharing a baseline
type textRow struct {
	elements []pdf.Text
}

// extractTextWithProperSpacing rebuilds the page's lines from glyph positions.
// Lines run top to bottom, each terminated by a newline.
func extractTextWithProperSpacing(p pdf.Page) string {
	rows := groupRows(p.Content().Text)

	var buf bytes.Buffer
	for _, row := range rows {
		rowText := reconstructRowText(row.elements)
		if strings.TrimSpace(rowText) != "" {
			buf.WriteString(rowText)
			buf.WriteString("\n")
		}
	}

	return buf.String()
}

// groupRows buckets glyphs by baseline and orders the rows top to bottom
func groupRows(glyphs []pdf.Text) []*textRow {
	var rows []*textRow
	for _, glyph := range glyphs {
		var target *textRow
		for _, row := range rows {
			if math.Abs(getAverageY(row.elements)-glyph.Y) <= rowTolerance {
				target = row
				break
			}
		}
		if target == nil {
			target = &textRow{}
			rows = append(rows, target)
		}
		target.elements = append(target.elements, glyph)
	}

	// PDF Y grows upwards, so the top row has the highest Y
	sort.SliceStable(rows, func(i, j int) bool {
		return getAverageY(rows[i].elements) > getAverageY(rows[j].elements)
	})
	return rows
}

// getAverageY calculates the average Y coordinate for text elements in a row
func getAverageY(textElements []pdf.Text) float64 {
	if len(textElements) == 0 {
		return 0
	}

	var totalY float64
	for _, element := range textElements {
		totalY += element.Y
	}

	return totalY / float64(len(textElements))
}

// reconstructRowText joins a row's fragments left to right, inserting a space
// wherever the gap to the next fragment exceeds 20% of the font size
func reconstructRowText(textElements []pdf.Text) string {
	if len(textElements) == 0 {
		return ""
	}

	sortedElements := make([]pdf.Text, len(textElements))
	copy(sortedElements, textElements)
	sort.SliceStable(sortedElements, func(i, j int) bool {
		return sortedElements[i].X < sortedElements[j].X
	})

	var buf bytes.Buffer
	for i, element := range sortedElements {
		buf.WriteString(element.S)

		if i == len(sortedElements)-1 {
			break
		}

		gap := sortedElements[i+1].X - (element.X + element.W)

		fontSize := element.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}

		if gap > fontSize*0.2 && !strings.HasSuffix(element.S, " ") && !strings.HasPrefix(sortedElements[i+1].S, " ") {
			buf.WriteString(" ")
		}
	}

	return buf.String()
}

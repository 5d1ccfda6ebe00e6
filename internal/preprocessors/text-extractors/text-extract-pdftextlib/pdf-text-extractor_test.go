// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textextractpdftextlib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-analyze/internal/resilience"
	"pdf-analyze/internal/testutil"
)

func TestExtractText_PagesInOrder(t *testing.T) {
	path := testutil.WritePDF(t, t.TempDir(), "two-pages.pdf", testutil.Document{
		Pages: []testutil.Page{
			{Lines: []string{"First page heading", "Visit http://a.com/page?x=1 today"}},
			{Lines: []string{"Second page body"}},
		},
	})

	text, err := ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "First page heading\nVisit http://a.com/page?x=1 today\nSecond page body\n", text)
}

func TestExtractText_LinesStaySeparate(t *testing.T) {
	path := testutil.WritePDF(t, t.TempDir(), "lines.pdf", testutil.Document{
		Pages: []testutil.Page{{Lines: []string{"see https://b.com", "next line", "last"}}},
	})

	text, err := ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"see https://b.com", "next line", "last"},
		strings.Split(strings.TrimSuffix(text, "\n"), "\n"))
}

func TestExtractText_MissingFile(t *testing.T) {
	text, err := ExtractText(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Empty(t, text)
	assert.Equal(t, resilience.ErrorTypeFileAccess, resilience.TypeOf(err))
}

func TestExtractText_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf at all"), 0600))

	text, err := ExtractText(path)
	require.Error(t, err)
	assert.Empty(t, text)
}

func TestReconstructRowText_Spacing(t *testing.T) {
	cases := []struct {
		name     string
		elements []pdf.Text
		want     string
	}{
		{
			name:     "empty row",
			elements: nil,
			want:     "",
		},
		{
			name: "adjacent glyphs are joined",
			elements: []pdf.Text{
				{S: "a", X: 10, W: 6, FontSize: 10},
				{S: "b", X: 16, W: 6, FontSize: 10},
			},
			want: "ab",
		},
		{
			name: "wide gap becomes a space",
			elements: []pdf.Text{
				{S: "word", X: 10, W: 20, FontSize: 10},
				{S: "next", X: 40, W: 20, FontSize: 10},
			},
			want: "word next",
		},
		{
			name: "out of order fragments are sorted by X",
			elements: []pdf.Text{
				{S: "right", X: 100, W: 25, FontSize: 10},
				{S: "left", X: 10, W: 20, FontSize: 10},
			},
			want: "left right",
		},
		{
			name: "explicit space glyph is not doubled",
			elements: []pdf.Text{
				{S: "a ", X: 10, W: 6, FontSize: 10},
				{S: "b", X: 30, W: 6, FontSize: 10},
			},
			want: "a b",
		},
		{
			name: "zero font size uses default threshold",
			elements: []pdf.Text{
				{S: "x", X: 0, W: 5},
				{S: "y", X: 7, W: 5},
			},
			want: "xy",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reconstructRowText(tc.elements))
		})
	}
}

func TestGroupRows(t *testing.T) {
	glyphs := []pdf.Text{
		{S: "b", X: 20, Y: 100, W: 6, FontSize: 10},
		{S: "l", X: 10, Y: 84, W: 6, FontSize: 10},
		{S: "a", X: 10, Y: 100.4, W: 6, FontSize: 10},
		{S: "o", X: 16, Y: 84, W: 6, FontSize: 10},
		{S: "t", X: 10, Y: 200, W: 6, FontSize: 10},
	}

	rows := groupRows(glyphs)
	require.Len(t, rows, 3)
	got := make([]string, 0, len(rows))
	for _, row := range rows {
		got = append(got, reconstructRowText(row.elements))
	}
	assert.Equal(t, []string{"t", "a b", "lo"}, got)
	assert.Empty(t, groupRows(nil))
}

func TestGetAverageY(t *testing.T) {
	assert.Equal(t, 0.0, getAverageY(nil))
	assert.Equal(t, 15.0, getAverageY([]pdf.Text{{Y: 10}, {Y: 20}}))
}

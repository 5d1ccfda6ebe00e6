// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Formatter writes the human-readable report. Colour only wraps section
// headers and error lines; the visible text is the same either way.
type Formatter struct {
	out    io.Writer
	colors map[string]*color.Color
}

// NewFormatter creates a report formatter writing to out
func NewFormatter(out io.Writer, useColor bool) *Formatter {
	colors := map[string]*color.Color{
		"header": color.New(color.FgCyan, color.Bold),
		"red":    color.New(color.FgRed),
		"green":  color.New(color.FgGreen),
	}
	for _, c := range colors {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return &Formatter{
		out:    out,
		colors: colors,
	}
}

// Section prints a section header such as "Metadata:"
func (f *Formatter) Section(title string) {
	f.colors["header"].Fprintln(f.out, title)
}

// Field prints a "name: value" line
func (f *Formatter) Field(name string, value fmt.Stringer) {
	fmt.Fprintf(f.out, "%s: %s\n", name, value)
}

// Line prints one line of plain text
func (f *Formatter) Line(s string) {
	fmt.Fprintln(f.out, s)
}

// Found prints a line announcing a positive result, e.g. "URLs found:"
func (f *Formatter) Found(s string) {
	f.colors["green"].Fprintln(f.out, s)
}

// Blank prints the empty line that closes a section
func (f *Formatter) Blank() {
	fmt.Fprintln(f.out)
}

// Error prints "<prefix>: <message>"
func (f *Formatter) Error(prefix string, err error) {
	f.colors["red"].Fprintf(f.out, "%s: %v\n", prefix, err)
}

// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metaextractpdflib

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"pdf-analyze/internal/resilience"
)

// Stage is the component name used in errors and observability
const Stage = "metadata_reader"

// Report field names, in report order
const (
	FieldTitle    = "Title"
	FieldAuthor   = "Author"
	FieldSubject  = "Subject"
	FieldProducer = "Producer"
	FieldCreated  = "Created"
	FieldModified = "Modified"
	FieldPages    = "Number of Pages"
)

// infoKeys maps report fields to their Info dictionary keys
var infoKeys = []struct {
	field string
	key   string
}{
	{FieldTitle, "Title"},
	{FieldAuthor, "Author"},
	{FieldSubject, "Subject"},
	{FieldProducer, "Producer"},
	{FieldCreated, "CreationDate"},
	{FieldModified, "ModDate"},
}

func init() {
	// Reading metadata must not create a pdfcpu config directory in the user's home
	api.DisableConfigDir()
}

// Value is an optional metadata value
type Value struct {
	Text    string
	Present bool
}

// String renders absent values as None
func (v Value) String() string {
	if !v.Present {
		return "None"
	}
	return v.Text
}

// Field is one named entry of the metadata record
type Field struct {
	Name  string
	Value Value
}

// Metadata represents the document-level metadata record.
// On success it always holds every field, in report order.
type Metadata struct {
	Filename  string
	Fields    []Field
	PageCount int
}

// Len returns the number of fields in the record
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Fields)
}

// Get returns the value stored for name. ok is false when the record has no such field.
func (m *Metadata) Get(name string) (value Value, ok bool) {
	if m == nil {
		return Value{}, false
	}
	for _, f := range m.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// ExtractMetadata reads the Info dictionary and page count of a PDF document.
// On failure the returned record is empty and the error is a *resilience.StageError.
func ExtractMetadata(filePath string) (*Metadata, error) {
	metadata := &Metadata{
		Filename: filepath.Base(filePath),
	}

	if _, err := os.Stat(filePath); err != nil {
		return metadata, resilience.NewStageError(Stage, resilience.ErrorTypeFileAccess, err)
	}

	ctx, err := api.ReadContextFile(filePath)
	if err != nil {
		return metadata, resilience.NewStageError(Stage, resilience.ErrorTypeFileAccess,
			fmt.Errorf("error reading PDF: %w", err))
	}

	if ctx.Info == nil {
		return metadata, resilience.NewStageError(Stage, resilience.ErrorTypeMetadata, resilience.ErrNoMetadata)
	}

	info, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil {
		return metadata, resilience.NewStageError(Stage, resilience.ErrorTypeMetadata,
			fmt.Errorf("error reading metadata dictionary: %w", err))
	}
	if info == nil {
		return metadata, resilience.NewStageError(Stage, resilience.ErrorTypeMetadata, resilience.ErrNoMetadata)
	}

	fields := make([]Field, 0, len(infoKeys)+1)
	for _, k := range infoKeys {
		fields = append(fields, Field{Name: k.field, Value: lookupString(ctx, info, k.key)})
	}
	fields = append(fields, Field{
		Name:  FieldPages,
		Value: Value{Text: strconv.Itoa(ctx.PageCount), Present: true},
	})

	metadata.Fields = fields
	metadata.PageCount = ctx.PageCount
	return metadata, nil
}

// lookupString resolves key in the Info dictionary. Anything that cannot be
// read as text is reported as absent rather than failing the whole record.
func lookupString(ctx *model.Context, info types.Dict, key string) Value {
	obj, found := info.Find(key)
	if !found || obj == nil {
		return Value{}
	}

	obj, err := ctx.Dereference(obj)
	if err != nil || obj == nil {
		return Value{}
	}

	switch o := obj.(type) {
	case types.StringLiteral:
		s, err := types.StringLiteralToString(o)
		if err != nil {
			return Value{}
		}
		return Value{Text: s, Present: true}
	case types.HexLiteral:
		s, err := types.HexLiteralToString(o)
		if err != nil {
			return Value{}
		}
		return Value{Text: s, Present: true}
	case types.Name:
		return Value{Text: o.Value(), Present: true}
	}

	return Value{}
}

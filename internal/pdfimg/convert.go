// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pdfimg converts PDF documents to base64-encoded JPEG page images
// suitable for embedding as multimodal message content.
package pdfimg

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"
)

const (
	// renderDPI is the rasterization resolution, roughly a 2x upscale of the
	// PDF's native 72 DPI user space.
	renderDPI = 200

	// maxDimension is the cap on the longer side of a page image. Larger
	// renders are downscaled so the longer side equals this exactly.
	maxDimension = 2048

	// jpegQuality is the JPEG encoding quality for page images.
	jpegQuality = 85
)

// ErrUnreadablePDF indicates the file could not be opened or parsed as a PDF.
var ErrUnreadablePDF = errors.New("unreadable pdf")

// Document holds the conversion result for one uploaded file: the display
// name and one base64 JPEG per page, in document order. It is rebuilt fresh
// on each upload and never persisted.
type Document struct {
	Name  string
	Pages []string
}

// PageCount returns the number of converted pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Convert rasterizes every page of the PDF at path and returns one
// base64-encoded JPEG string per page, in document order. An empty document
// yields an empty slice. No temporary files are written.
func Convert(path string) ([]string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.ImageDPI(n, renderDPI)
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", n+1, err)
		}

		encoded, err := encodePage(scaleDown(img))
		if err != nil {
			return nil, fmt.Errorf("encode page %d: %w", n+1, err)
		}
		pages = append(pages, encoded)
	}
	return pages, nil
}

// ConvertFile converts the PDF at path and wraps the result with its display
// name.
func ConvertFile(path string) (*Document, error) {
	pages, err := Convert(path)
	if err != nil {
		return nil, err
	}
	return &Document{Name: filepath.Base(path), Pages: pages}, nil
}

// scaleDown resamples src so its longer dimension equals maxDimension,
// preserving aspect ratio. Images already within bounds are returned
// unchanged.
func scaleDown(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	longer := w
	if h > longer {
		longer = h
	}
	if longer <= maxDimension {
		return src
	}

	ratio := float64(maxDimension) / float64(longer)
	var nw, nh int
	if w >= h {
		nw = maxDimension
		nh = int(math.Round(float64(h) * ratio))
	} else {
		nh = maxDimension
		nw = int(math.Round(float64(w) * ratio))
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// encodePage JPEG-encodes the image and base64-encodes the bytes.
func encodePage(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

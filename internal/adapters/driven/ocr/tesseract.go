// Package ocr extracts text from plan images and PDFs using the
// tesseract and pdftoppm command line tools.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/handeliew/hugin/internal/core/ports/driven"
	"github.com/handeliew/hugin/internal/logger"
)

const (
	// languages passed to tesseract. The plans are Norwegian with the
	// odd English subject heading.
	languages = "nor+eng"

	// pageSegMode 6 assumes a single uniform block of text, which suits
	// one column of a plan.
	pageSegMode = "6"

	// pdfDPI is the rasterisation resolution for PDF pages.
	pdfDPI = "300"

	pageBreakMarker = "=== PAGE BREAK ==="
)

// Extractor implements the TextExtractor port by shelling out to
// tesseract. The plan layout has homework in the left column and notices
// in the right, so each image is OCR'd per half and the halves are
// joined under section markers.
type Extractor struct{}

var _ driven.TextExtractor = (*Extractor)(nil)

// NewExtractor creates a tesseract-backed extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Available reports whether the tesseract binary can be found.
func (e *Extractor) Available() bool {
	_, err := exec.LookPath("tesseract")
	return err == nil
}

// ExtractText runs OCR on the image or PDF at path.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return e.extractPDF(ctx, path)
	}
	return e.extractImage(ctx, path)
}

// extractImage OCRs a single image, column by column. When the image
// cannot be decoded for splitting, the whole image is OCR'd as one block.
func (e *Extractor) extractImage(ctx context.Context, path string) (string, error) {
	left, right, err := splitColumns(path)
	if err != nil {
		logger.Debug("column split failed, falling back to whole-image OCR: %v", err)
		return e.runTesseract(ctx, path)
	}
	defer os.Remove(left)
	defer os.Remove(right)

	leftText, err := e.runTesseract(ctx, left)
	if err != nil {
		return "", err
	}
	rightText, err := e.runTesseract(ctx, right)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("=== MINE LEKSER ===\n%s\n\n=== BESKJEDER ===\n%s", leftText, rightText), nil
}

// extractPDF rasterises each page with pdftoppm and OCRs the pages in
// order.
func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	dir, err := os.MkdirTemp("", "hugin-ocr-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-r", pdfDPI, "-png", path, prefix)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("rasterising pdf %s: %w: %s", path, err, strings.TrimSpace(string(output)))
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil {
		return "", fmt.Errorf("listing pdf pages: %w", err)
	}
	sort.Strings(pages)

	var texts []string
	for _, page := range pages {
		text, err := e.extractImage(ctx, page)
		if err != nil {
			return "", fmt.Errorf("page %s: %w", filepath.Base(page), err)
		}
		texts = append(texts, text)
	}

	return strings.Join(texts, "\n\n"+pageBreakMarker+"\n\n"), nil
}

// runTesseract OCRs one file and returns the trimmed text.
func (e *Extractor) runTesseract(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "tesseract", path, "stdout", "-l", languages, "--psm", pageSegMode)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract %s: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// splitColumns decodes the image at path and writes its left and right
// halves to temp files. Returns the two file paths.
func splitColumns(path string) (string, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("opening image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return "", "", fmt.Errorf("decoding image: %w", err)
	}

	bounds := img.Bounds()
	midX := bounds.Min.X + bounds.Dx()/2

	left, err := writeCrop(img, image.Rect(bounds.Min.X, bounds.Min.Y, midX, bounds.Max.Y))
	if err != nil {
		return "", "", err
	}
	right, err := writeCrop(img, image.Rect(midX, bounds.Min.Y, bounds.Max.X, bounds.Max.Y))
	if err != nil {
		os.Remove(left)
		return "", "", err
	}

	return left, right, nil
}

// subImager is implemented by the stdlib image types.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// writeCrop writes the given crop of img to a temp PNG file.
func writeCrop(img image.Image, rect image.Rectangle) (string, error) {
	sub, ok := img.(subImager)
	if !ok {
		return "", fmt.Errorf("image type %T does not support cropping", img)
	}

	file, err := os.CreateTemp("", "hugin-column-*.png")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, sub.SubImage(rect)); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("encoding column: %w", err)
	}
	return file.Name(), nil
}

package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/mintflow/internal/common"
	"github.com/google/uuid"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
)

// ImageDPI is the resolution of every PNG written.
const ImageDPI = 100

// page is one rendered figure: a PDF page and, optionally, a PNG of its own.
type page struct {
	draw   func(draw.Canvas) error
	name   string
	width  vg.Length
	height vg.Length
}

// renderPNG draws a page onto a fresh image canvas and encodes it.
func renderPNG(pg page) ([]byte, error) {
	img := vgimg.NewWith(vgimg.UseWH(pg.width, pg.height), vgimg.UseDPI(ImageDPI))
	if err := pg.draw(draw.New(img)); err != nil {
		return nil, fmt.Errorf("failed to draw %s: %w", pg.name, err)
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", pg.name, err)
	}
	return buf.Bytes(), nil
}

// document accumulates pages of a single PDF. Every page has the document's size; figures of
// another size are scaled onto it.
type document struct {
	pdf   *vgpdf.Canvas
	pages int
}

func newDocument(width, height vg.Length) *document {
	return &document{pdf: vgpdf.New(width, height)}
}

func (d *document) add(pg page) error {
	if d.pages > 0 {
		d.pdf.NextPage()
	}
	d.pages++
	if err := pg.draw(draw.New(d.pdf)); err != nil {
		return fmt.Errorf("failed to draw %s: %w", pg.name, err)
	}
	return nil
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// stagedFile is a temporary file waiting to be renamed onto its final path. backup holds the
// file it replaced, if any, until the commit is complete.
type stagedFile struct {
	tmp    string
	final  string
	backup string
}

// staging writes outputs next to their destinations under temporary names and moves them into
// place together. Nothing is visible at a final path until commit, and a failed commit puts
// back whatever was there before.
type staging struct {
	files []stagedFile
}

// stage writes data to a temporary file in the directory of path, creating it if needed.
func (s *staging) stage(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &common.IOError{Op: "create directory", Path: dir, Err: err}
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return &common.IOError{Op: "write", Path: path, Err: err}
	}

	s.files = append(s.files, stagedFile{tmp: tmp, final: path})
	return nil
}

// commit renames every staged file onto its final path. Existing files are set aside first;
// if any rename fails, the files already moved are withdrawn and the set-aside files restored.
func (s *staging) commit() error {
	for i := range s.files {
		if err := s.files[i].install(); err != nil {
			s.rollback(i)
			return err
		}
	}

	for _, f := range s.files {
		if f.backup != "" {
			_ = os.Remove(f.backup)
		}
	}
	s.files = nil
	return nil
}

func (f *stagedFile) install() error {
	if info, err := os.Lstat(f.final); err == nil && info.Mode().IsRegular() {
		backup := filepath.Join(filepath.Dir(f.final),
			fmt.Sprintf(".%s.%s.bak", filepath.Base(f.final), uuid.New().String()))
		if err := os.Rename(f.final, backup); err != nil {
			return &common.IOError{Op: "rename", Path: f.final, Err: err}
		}
		f.backup = backup
	}

	if err := os.Rename(f.tmp, f.final); err != nil {
		if f.backup != "" {
			_ = os.Rename(f.backup, f.final)
			f.backup = ""
		}
		return &common.IOError{Op: "rename", Path: f.final, Err: err}
	}
	return nil
}

// rollback undoes the first n installs, newest first. Files not yet installed are left for
// cleanup.
func (s *staging) rollback(n int) {
	for i := n - 1; i >= 0; i-- {
		f := s.files[i]
		_ = os.Remove(f.final)
		if f.backup != "" {
			_ = os.Rename(f.backup, f.final)
		}
	}
	s.files = s.files[n:]
}

// cleanup removes staged files that were never committed.
func (s *staging) cleanup() {
	for _, f := range s.files {
		_ = os.Remove(f.tmp)
	}
	s.files = nil
}

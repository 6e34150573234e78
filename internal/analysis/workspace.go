package analysis

import (
	"context"
	"errors"
	"io"
	"sync"

	"contract-scanner/internal/extract"
)

// ErrScanInProgress is returned when Scan is called while another scan runs.
var ErrScanInProgress = errors.New("a scan is already in progress")

// Workspace holds the scanner screen: typed or extracted text, an optional
// focus phrase, the loaded document and the latest results. It is safe for
// concurrent use.
type Workspace struct {
	analyzer *Analyzer

	mu      sync.Mutex
	text    string
	focus   string
	doc     *extract.Document
	report  *Report
	busy    bool
	lastErr error
}

func NewWorkspace(analyzer *Analyzer) *Workspace {
	return &Workspace{analyzer: analyzer}
}

func (w *Workspace) SetText(text string) {
	w.mu.Lock()
	w.text = text
	w.mu.Unlock()
}

func (w *Workspace) Text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.text
}

func (w *Workspace) SetFocus(focus string) {
	w.mu.Lock()
	w.focus = focus
	w.mu.Unlock()
}

func (w *Workspace) Focus() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focus
}

// Document returns the loaded document, if any.
func (w *Workspace) Document() (extract.Document, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.doc == nil {
		return extract.Document{}, false
	}
	return *w.doc, true
}

// LoadFile extracts a file into the workspace text. On failure the document
// is cleared and any previously typed text is kept.
func (w *Workspace) LoadFile(ctx context.Context, name string, size int64, r io.Reader) error {
	doc, text, err := extract.Extract(ctx, name, size, r)
	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.doc = nil
		return err
	}
	w.doc = &doc
	w.text = text
	return nil
}

// ClearDocument drops the loaded document and its text.
func (w *Workspace) ClearDocument() {
	w.mu.Lock()
	w.doc = nil
	w.text = ""
	w.mu.Unlock()
}

// Scan analyzes the current text. Results are cleared when the scan starts and
// only set again on success.
func (w *Workspace) Scan(ctx context.Context) (Report, error) {
	w.mu.Lock()
	if w.busy {
		w.mu.Unlock()
		return Report{}, ErrScanInProgress
	}
	w.busy = true
	w.report = nil
	w.lastErr = nil
	text, focus := w.text, w.focus
	w.mu.Unlock()

	report, err := w.analyzer.Analyze(ctx, text, focus)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
	if err != nil {
		w.lastErr = err
		return Report{}, err
	}
	w.report = &report
	return report, nil
}

// Results returns the last successful report, if one is set.
func (w *Workspace) Results() (Report, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.report == nil {
		return Report{}, false
	}
	return *w.report, true
}

// Err is the error of the last scan, nil after a success.
func (w *Workspace) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Workspace) Busy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.busy
}

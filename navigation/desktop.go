// Package navigation carries out satellite clicks on the desktop: documents
// open in the system browser, sections switch the in-scene state.
package navigation

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/browser"

	"planetsystem/config"
)

// ErrDocumentNotFound is returned when a local document does not exist.
var ErrDocumentNotFound = errors.New("document not found")

var logger = log.New(os.Stderr, "[navigation] ", log.LstdFlags)

// Desktop implements scene.Navigator.
type Desktop struct {
	// BaseURL, when set, resolves relative documents against a site
	// instead of the local DocsDir.
	BaseURL string
	DocsDir string

	openURL  func(string) error
	openFile func(string) error

	mu        sync.Mutex
	section   string
	listeners []func(section string)
}

func NewDesktop(cfg config.NavigationSettings) *Desktop {
	browser.Stdout = logger.Writer()
	return &Desktop{
		BaseURL:  cfg.BaseURL,
		DocsDir:  cfg.DocsDir,
		openURL:  browser.OpenURL,
		openFile: browser.OpenFile,
	}
}

// OpenDocument opens target in the system browser. Absolute URLs are used as
// is; relative targets resolve against BaseURL or, without one, DocsDir.
func (d *Desktop) OpenDocument(target string) error {
	if u, err := url.Parse(target); err == nil && u.Scheme != "" && u.Host != "" {
		logger.Printf("Opening %s", u)
		return d.openURL(u.String())
	}

	if d.BaseURL != "" {
		base, err := url.Parse(d.BaseURL)
		if err != nil {
			return fmt.Errorf("base url %q: %w", d.BaseURL, err)
		}
		ref, err := url.Parse(target)
		if err != nil {
			return fmt.Errorf("document %q: %w", target, err)
		}
		resolved := base.ResolveReference(ref).String()
		logger.Printf("Opening %s", resolved)
		return d.openURL(resolved)
	}

	path := filepath.Join(d.DocsDir, filepath.FromSlash(target))
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	logger.Printf("Opening %s", abs)
	return d.openFile(abs)
}

// ShowSection records section and notifies every listener. Re-selecting the
// current section still notifies, so listeners can scroll back to it.
func (d *Desktop) ShowSection(section string) {
	d.mu.Lock()
	d.section = section
	listeners := append([]func(string){}, d.listeners...)
	d.mu.Unlock()

	logger.Printf("Section %s", section)
	for _, fn := range listeners {
		fn(section)
	}
}

// Section is the last section shown, or "" before the first click.
func (d *Desktop) Section() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.section
}

// OnSection registers fn to run after every section change.
func (d *Desktop) OnSection(fn func(section string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, fn)
}

// SectionTitle formats a window title for the current section.
func SectionTitle(base, section string) string {
	name := strings.TrimPrefix(section, "#")
	if name == "" {
		return base
	}
	return base + " · " + name
}

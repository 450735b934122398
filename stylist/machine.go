package stylist

import (
	"context"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/raushankrgupta/vogue-styler/models"
)

// Generator produces an edited image from a base image and an instruction.
type Generator interface {
	Transform(ctx context.Context, baseImage, instruction, category string) (string, error)
}

// The remote call is labelled with a single category; the prompt itself
// carries the per-slot detail.
const generationCategory = "Fashion"

const defaultGenerationTimeout = 5 * time.Minute

// Machine owns the in-progress selection and turns every mutation into a
// preview generation against the Generator.
//
// Overlapping generations follow last-request-wins: each generation is
// stamped with a sequence number and a completion whose stamp is no longer
// current is discarded. There is no cancellation of the in-flight remote
// call. A failed generation keeps the previous preview on screen and only
// clears the loading flag; it is not retried.
type Machine struct {
	gen     Generator
	timeout time.Duration

	mu      sync.Mutex
	sel     models.CurrentSelection
	base    string
	preview string
	loading bool
	seq     uint64

	wg sync.WaitGroup
}

// NewMachine returns a machine whose preview starts at the base image.
func NewMachine(gen Generator, baseImage string) *Machine {
	return &Machine{
		gen:     gen,
		timeout: defaultGenerationTimeout,
		base:    baseImage,
		preview: baseImage,
	}
}

// Choose sets the slot matching the option's category, leaving the other
// slots untouched, and always triggers a new preview generation.
func (m *Machine) Choose(opt models.StyleOption) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if slot := m.sel.Slot(opt.Category); slot != nil {
		o := opt
		*slot = &o
	}
	m.regenerateLocked()
}

// SetStyleText sets the free-text style slot. Regeneration is triggered only
// when the text is empty or longer than two characters, so transient input
// while typing does not spam the remote model.
func (m *Machine) SetStyleText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sel.Style = text
	if text == "" || utf8.RuneCountInString(text) > 2 {
		m.regenerateLocked()
	}
}

// regenerateLocked kicks off an asynchronous generation for the current
// selection. Caller holds m.mu.
func (m *Machine) regenerateLocked() {
	m.seq++
	seq := m.seq
	m.loading = true

	prompt := ComposePrompt(m.sel)
	base := m.base

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		img, err := m.gen.Transform(ctx, base, prompt, generationCategory)

		m.mu.Lock()
		defer m.mu.Unlock()
		if seq != m.seq {
			// A newer generation superseded this one.
			return
		}
		m.loading = false
		if err != nil {
			log.Printf("preview generation failed: %v", err)
			return
		}
		m.preview = img
	}()
}

// Finalize snapshots the current preview against the base image. Selections
// are not cleared.
func (m *Machine) Finalize() models.GeneratedResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.GeneratedResult{
		OriginalURL: m.base,
		ResultURL:   m.preview,
		Description: "Design",
	}
}

// Preview returns the latest preview image and whether a generation is in
// flight.
func (m *Machine) Preview() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.preview, m.loading
}

// Selection returns a copy of the current selection.
func (m *Machine) Selection() models.CurrentSelection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sel
}

// ResetPreview points the machine at a new base image and discards any
// stale preview. Pending generations become stale.
func (m *Machine) ResetPreview(baseImage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.base = baseImage
	m.preview = baseImage
	m.loading = false
}

// Restore loads a saved look back into the machine for further editing.
func (m *Machine) Restore(sel models.CurrentSelection, baseImage, preview string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.sel = sel
	m.base = baseImage
	m.preview = preview
	m.loading = false
}

// Wait blocks until all in-flight generations have completed.
func (m *Machine) Wait() {
	m.wg.Wait()
}

// Package studio drives the product-photo generation flow: upload a
// product image, describe the model, generate studio photos, and hand the
// results to the gallery. The flow is a small state machine mirroring the
// screens the user walks through.
package studio

import (
	"context"
	"sync"

	"github.com/prodshot/prodshot/internal/logging"
)

// Step is the current position in the generation flow.
type Step string

const (
	StepUpload     Step = "UPLOAD"
	StepConfigure  Step = "CONFIGURE"
	StepGenerating Step = "GENERATING"
	StepResults    Step = "RESULTS"
	StepError      Step = "ERROR"
)

// Gender selects the model demographic in the prompt.
type Gender string

const (
	GenderFeminine  Gender = "Feminine"
	GenderMasculine Gender = "Masculine"
	GenderNeutral   Gender = "Neutral"
)

// Age bounds accepted by ModelConfig; values outside are clamped.
const (
	MinAge = 2
	MaxAge = 80
)

// UploadedImage is the product photo the user provided, as base64 plus
// its mime type.
type UploadedImage struct {
	Base64   string
	MimeType string
}

// ModelConfig describes the human model to render with the product.
type ModelConfig struct {
	Age    int
	Gender Gender
}

// DefaultModelConfig is the configuration a fresh session starts with.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{Age: 18, Gender: GenderFeminine}
}

// ConfigPatch is a partial update to ModelConfig; nil fields keep the
// previous value.
type ConfigPatch struct {
	Age    *int
	Gender *Gender
}

// validGender reports whether g is one of the accepted values.
func validGender(g Gender) bool {
	switch g {
	case GenderFeminine, GenderMasculine, GenderNeutral:
		return true
	}
	return false
}

// Generator produces studio photos for a product image. Implementations
// return the generated images as base64 payloads, in order.
type Generator interface {
	Generate(ctx context.Context, image UploadedImage, cfg ModelConfig) ([]string, error)
}

// Saver persists generated payloads to the user's gallery.
type Saver interface {
	SaveImages(ctx context.Context, payloads []string) error
}

// Machine holds the generation flow state. Safe for concurrent use; the
// background gallery save runs on its own goroutine.
type Machine struct {
	generator Generator
	saver     Saver
	logger    logging.Logger

	mu      sync.Mutex
	step    Step
	image   *UploadedImage
	config  ModelConfig
	results []string
	errMsg  string
	warning string
	// session counts resets, so a background save started before a Reset
	// cannot attach its warning to the fresh session.
	session int

	saveWG sync.WaitGroup
}

func NewMachine(generator Generator, saver Saver, logger logging.Logger) *Machine {
	return &Machine{
		generator: generator,
		saver:     saver,
		logger:    logger,
		step:      StepUpload,
		config:    DefaultModelConfig(),
	}
}

// Step returns the current flow position.
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Config returns the current model configuration.
func (m *Machine) Config() ModelConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Results returns the generated payloads in generation order.
func (m *Machine) Results() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.results
}

// Err returns the message shown on the ERROR step.
func (m *Machine) Err() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errMsg
}

// Warning returns the non-fatal notice attached after a failed background
// gallery save, or "".
func (m *Machine) Warning() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.warning
}

// Image returns the uploaded product image, or nil before upload.
func (m *Machine) Image() *UploadedImage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.image
}

// Upload stores the product image and advances to CONFIGURE.
func (m *Machine) Upload(img UploadedImage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.image = &img
	m.step = StepConfigure
}

// Configure merges a partial update into the model configuration. Age is
// clamped into [MinAge, MaxAge]; an invalid gender keeps the previous one.
func (m *Machine) Configure(patch ConfigPatch) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if patch.Age != nil {
		age := *patch.Age
		if age < MinAge {
			age = MinAge
		}
		if age > MaxAge {
			age = MaxAge
		}
		m.config.Age = age
	}
	if patch.Gender != nil && validGender(*patch.Gender) {
		m.config.Gender = *patch.Gender
	}
}

// Generate runs the collaborator and moves to RESULTS or ERROR. Without an
// uploaded image it fails fast and the collaborator is never called. After
// a successful generation the payloads are persisted to the gallery in the
// background; a save failure only attaches a warning.
func (m *Machine) Generate(ctx context.Context) {
	m.mu.Lock()
	if m.image == nil {
		m.errMsg = "image required"
		m.step = StepError
		m.mu.Unlock()
		return
	}
	img := *m.image
	cfg := m.config
	m.step = StepGenerating
	m.errMsg = ""
	m.warning = ""
	m.results = nil
	m.mu.Unlock()

	payloads, err := m.generator.Generate(ctx, img, cfg)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.errMsg = err.Error()
		m.step = StepError
		return
	}

	m.results = payloads
	m.step = StepResults
	session := m.session

	m.saveWG.Add(1)
	go func() {
		defer m.saveWG.Done()
		if err := m.saver.SaveImages(context.Background(), payloads); err != nil {
			m.logger.Warn(context.Background(), "could not save generated images to gallery", "error", err.Error())
			m.mu.Lock()
			if m.session == session {
				m.warning = "generated images could not be saved to your gallery"
			}
			m.mu.Unlock()
		}
	}()
}

// Reset returns the machine to a fresh UPLOAD state with default config.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = StepUpload
	m.image = nil
	m.config = DefaultModelConfig()
	m.results = nil
	m.errMsg = ""
	m.warning = ""
	m.session++
}

// WaitForSave blocks until any in-flight background gallery save finishes,
// so callers can report its outcome truthfully.
func (m *Machine) WaitForSave() {
	m.saveWG.Wait()
}

package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/prodshot/prodshot/internal/client/studio"
)

// Upload reads a product photo from disk and feeds it into the generation
// flow.
func (a *App) Upload(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Could not read file:", err.Error())
		return err
	}

	a.machine.Upload(studio.UploadedImage{
		Base64:   base64.StdEncoding.EncodeToString(data),
		MimeType: http.DetectContentType(data),
	})

	printlnFn("Product photo uploaded. Set age/gender and run 'generate'.")
	return nil
}

// Age sets the model's age; out-of-range values are clamped.
func (a *App) Age(ctx context.Context, arg string) error {
	age, err := strconv.Atoi(arg)
	if err != nil {
		printlnFn("Age must be a number.")
		return err
	}

	a.machine.Configure(studio.ConfigPatch{Age: &age})
	printlnFn(fmt.Sprintf("Model age set to %d.", a.machine.Config().Age))
	return nil
}

// Gender sets the model's gender from a short or full form.
func (a *App) Gender(ctx context.Context, arg string) error {
	var gender studio.Gender
	switch arg {
	case "f", "feminine":
		gender = studio.GenderFeminine
	case "m", "masculine":
		gender = studio.GenderMasculine
	case "n", "neutral":
		gender = studio.GenderNeutral
	default:
		printlnFn("Gender must be one of: f, m, n.")
		return fmt.Errorf("invalid gender: %s", arg)
	}

	a.machine.Configure(studio.ConfigPatch{Gender: &gender})
	printlnFn(fmt.Sprintf("Model gender set to %s.", gender))
	return nil
}

// Generate runs the photo generation and reports the outcome.
func (a *App) Generate(ctx context.Context) error {
	printlnFn("Generating photos, this can take a while...")
	a.machine.Generate(ctx)

	switch a.machine.Step() {
	case studio.StepResults:
		printlnFn(fmt.Sprintf("Done! %d photos generated.", len(a.machine.Results())))
		// the gallery save runs in the background; report its outcome
		// only once it has actually finished
		a.machine.WaitForSave()
		if w := a.machine.Warning(); w != "" {
			printlnFn("Warning:", w)
		} else {
			printlnFn("Photos saved to your gallery.")
		}
	case studio.StepError:
		printlnFn("Generation failed:", a.machine.Err())
	}
	return nil
}

// Reset starts the generation flow over.
func (a *App) Reset(ctx context.Context) error {
	a.machine.Reset()
	printlnFn("Flow reset. Upload a new product photo to begin.")
	return nil
}

// Status prints the current flow state.
func (a *App) Status(ctx context.Context) error {
	cfg := a.machine.Config()
	printlnFn(fmt.Sprintf("Step: %s | Model: %s, %d years old", a.machine.Step(), cfg.Gender, cfg.Age))
	if w := a.machine.Warning(); w != "" {
		printlnFn("Warning:", w)
	}
	if e := a.machine.Err(); e != "" {
		printlnFn("Error:", e)
	}
	return nil
}

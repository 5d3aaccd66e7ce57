package cli

import (
	"context"
	"fmt"
	"strconv"
)

// Gallery refreshes and prints the user's stored images, newest first.
func (a *App) Gallery(ctx context.Context) error {
	if err := a.gallery.Refresh(ctx); err != nil {
		printlnFn("Could not load gallery:", err.Error())
		return err
	}

	records := a.gallery.Records()
	if len(records) == 0 {
		printlnFn("No images yet. Generate some in the studio!")
		return nil
	}

	for _, r := range records {
		printlnFn(fmt.Sprintf("%4d  %s  %s", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Filename))
	}
	return nil
}

// Download saves one gallery image into the configured download directory.
func (a *App) Download(ctx context.Context, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		printlnFn("Id must be a number.")
		return err
	}

	path, err := a.gallery.Download(ctx, id)
	if err != nil {
		printlnFn("Download failed:", err.Error())
		return err
	}

	printlnFn("Saved to", path)
	return nil
}

// Delete removes one gallery image.
func (a *App) Delete(ctx context.Context, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		printlnFn("Id must be a number.")
		return err
	}

	if err := a.gallery.Delete(ctx, id); err != nil {
		printlnFn("Delete failed:", err.Error())
		return err
	}

	printlnFn("Image deleted.")
	return nil
}

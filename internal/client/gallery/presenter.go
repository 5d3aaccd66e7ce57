// Package gallery presents the user's stored images on the client:
// refreshing the collection, loading previews in the background,
// downloading to disk, and deleting.
package gallery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prodshot/prodshot/internal/client/api"
	"github.com/prodshot/prodshot/internal/common"
	"github.com/prodshot/prodshot/internal/filex"
	"github.com/prodshot/prodshot/internal/logging"
)

// Client is the server surface the presenter needs.
type Client interface {
	ListImages(ctx context.Context) ([]api.ImageRecord, error)
	FetchImage(ctx context.Context, url string) ([]byte, error)
	DeleteImage(ctx context.Context, id int64) error
}

// Presenter owns the gallery view state. Previews are loaded one goroutine
// per record, each with its own cancellable context; a refresh cancels
// everything still in flight so a stale fetch can never overwrite newer
// state.
type Presenter struct {
	client      Client
	downloadDir string
	logger      logging.Logger

	mu       sync.Mutex
	records  []api.ImageRecord
	previews map[int64][]byte
	cancels  map[int64]context.CancelFunc
	selected int64
	// gen counts refreshes; a fetch started under an older generation must
	// never install its bytes, even if the new generation reuses its id.
	gen int

	wg sync.WaitGroup
}

func NewPresenter(client Client, downloadDir string, logger logging.Logger) *Presenter {
	return &Presenter{
		client:      client,
		downloadDir: downloadDir,
		logger:      logger,
		previews:    make(map[int64][]byte),
		cancels:     make(map[int64]context.CancelFunc),
	}
}

// Records returns a copy of the current collection, newest first.
func (p *Presenter) Records() []api.ImageRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]api.ImageRecord, len(p.records))
	copy(out, p.records)
	return out
}

// Preview returns the loaded preview bytes for id, if any.
func (p *Presenter) Preview(id int64) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.previews[id]
	return data, ok
}

// Select marks the record with the given id as selected.
func (p *Presenter) Select(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range p.records {
		if r.ID == id {
			p.selected = id
			return nil
		}
	}
	return common.ErrorNotFound
}

// Selected returns the selected record id, or 0 when nothing is selected.
func (p *Presenter) Selected() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected
}

// cancelAllLocked aborts every in-flight preview fetch and drops loaded
// previews. Callers hold the lock.
func (p *Presenter) cancelAllLocked() {
	for id, cancel := range p.cancels {
		cancel()
		delete(p.cancels, id)
	}
	p.previews = make(map[int64][]byte)
}

// Refresh replaces the collection with the server's listing and restarts
// preview loading. On failure the existing collection stays untouched.
func (p *Presenter) Refresh(ctx context.Context) error {
	records, err := p.client.ListImages(ctx)
	if err != nil {
		return fmt.Errorf("refresh gallery: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancelAllLocked()
	p.records = records
	p.selected = 0
	p.gen++
	gen := p.gen

	for _, rec := range records {
		fetchCtx, cancel := context.WithCancel(context.Background())
		p.cancels[rec.ID] = cancel
		p.wg.Add(1)
		go func(rec api.ImageRecord) {
			defer p.wg.Done()
			defer cancel()
			p.loadPreview(fetchCtx, rec, gen)
		}(rec)
	}

	return nil
}

// loadPreview fetches one record's bytes. A cancelled or superseded fetch
// must not touch presenter state.
func (p *Presenter) loadPreview(ctx context.Context, rec api.ImageRecord, gen int) {
	data, err := p.client.FetchImage(ctx, rec.URL)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		p.logger.Warn(ctx, "preview load failed", "filename", rec.Filename, "error", err.Error())
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// a newer refresh owns the cancels map now
	if gen != p.gen {
		return
	}
	// a delete may have retired this fetch in the meantime
	if _, live := p.cancels[rec.ID]; !live {
		return
	}
	delete(p.cancels, rec.ID)
	p.previews[rec.ID] = data
}

// Download fetches the record's image and writes it under the download
// directory using the record's filename. Returns the written path.
func (p *Presenter) Download(ctx context.Context, id int64) (string, error) {
	p.mu.Lock()
	var rec *api.ImageRecord
	for i := range p.records {
		if p.records[i].ID == id {
			rec = &p.records[i]
			break
		}
	}
	p.mu.Unlock()

	if rec == nil {
		return "", common.ErrorNotFound
	}

	data, err := p.client.FetchImage(ctx, rec.URL)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", rec.Filename, err)
	}

	dir, err := filex.EnsureDir(p.downloadDir)
	if err != nil {
		return "", fmt.Errorf("download dir: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(rec.Filename))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Delete removes the record on the server, then locally. A failed server
// delete leaves the collection unchanged. Deleting the selected record
// clears the selection.
func (p *Presenter) Delete(ctx context.Context, id int64) error {
	if err := p.client.DeleteImage(ctx, id); err != nil {
		return fmt.Errorf("delete image %d: %w", id, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for i, r := range p.records {
		if r.ID == id {
			p.records = append(p.records[:i], p.records[i+1:]...)
			break
		}
	}
	if cancel, ok := p.cancels[id]; ok {
		cancel()
		delete(p.cancels, id)
	}
	delete(p.previews, id)
	if p.selected == id {
		p.selected = 0
	}
	return nil
}

// Close aborts all in-flight preview fetches and waits for their
// goroutines to finish.
func (p *Presenter) Close() {
	p.mu.Lock()
	p.cancelAllLocked()
	p.mu.Unlock()
	p.wg.Wait()
}

// waitForPreviews blocks until all started preview fetches have returned.
func (p *Presenter) waitForPreviews() {
	p.wg.Wait()
}

package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prodshot/prodshot/internal/client/api"
	"github.com/prodshot/prodshot/internal/client/gallery"
	"github.com/prodshot/prodshot/internal/client/studio"
	"github.com/prodshot/prodshot/internal/common"
	"github.com/prodshot/prodshot/internal/logging"
)

type fakeAPI struct {
	token string

	registerErr error
	registered  []string

	loginOut *api.LoginResult
	loginErr error

	meOut *api.User
	meErr error
}

func (f *fakeAPI) Register(ctx context.Context, name, email, password string) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.registered = append(f.registered, email)
	return nil
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginOut, nil
}

func (f *fakeAPI) Me(ctx context.Context) (*api.User, error) {
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.meOut, nil
}

func (f *fakeAPI) SetToken(token string) { f.token = token }
func (f *fakeAPI) Token() string         { return f.token }

// fakeAPI also serves as the gallery backend in these tests.
func (f *fakeAPI) ListImages(ctx context.Context) ([]api.ImageRecord, error) { return nil, nil }
func (f *fakeAPI) FetchImage(ctx context.Context, url string) ([]byte, error) {
	return nil, common.ErrorNotFound
}
func (f *fakeAPI) DeleteImage(ctx context.Context, id int64) error { return nil }

type memMeta struct {
	data map[string][]byte
}

func newMemMeta() *memMeta { return &memMeta{data: make(map[string][]byte)} }

func (m *memMeta) Get(ctx context.Context, key string) ([]byte, error) { return m.data[key], nil }
func (m *memMeta) Set(ctx context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}
func (m *memMeta) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}
func (m *memMeta) List(ctx context.Context) (map[string][]byte, error) { return m.data, nil }
func (m *memMeta) Clear(ctx context.Context) error {
	m.data = make(map[string][]byte)
	return nil
}

type noopGenerator struct{}

func (noopGenerator) Generate(ctx context.Context, image studio.UploadedImage, cfg studio.ModelConfig) ([]string, error) {
	return []string{"img-1"}, nil
}

type noopSaver struct{}

func (noopSaver) SaveImages(ctx context.Context, payloads []string) error { return nil }

// slowFailSaver fails only after a delay, like a gallery that is slow to
// reject the upload.
type slowFailSaver struct{}

func (slowFailSaver) SaveImages(ctx context.Context, payloads []string) error {
	time.Sleep(50 * time.Millisecond)
	return errors.New("gallery down")
}

func newTestApp(t *testing.T, apiFake *fakeAPI, input string) *App {
	t.Helper()

	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	logger := logging.NewNop()

	return &App{
		api:     apiFake,
		machine: studio.NewMachine(noopGenerator{}, noopSaver{}, logger),
		gallery: gallery.NewPresenter(apiFake, t.TempDir(), logger),
		meta:    newMemMeta(),
		logger:  logger,
		reader:  bufio.NewReader(strings.NewReader(input)),
		out:     &bytes.Buffer{},
	}
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	old := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = old })
}

func TestLogin_InstallsAndCachesToken(t *testing.T) {
	apiFake := &fakeAPI{loginOut: &api.LoginResult{
		Token: "tok-1",
		User:  api.User{ID: 1, Name: "Ana", Email: "ana@x.com"},
	}}
	a := newTestApp(t, apiFake, "ana@x.com\n")
	stubPassword(t, "secret1")

	if err := a.Login(context.Background()); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if apiFake.token != "tok-1" {
		t.Fatalf("token not installed: %q", apiFake.token)
	}
	if a.userName != "Ana" {
		t.Fatalf("user name not set: %q", a.userName)
	}
	cached, _ := a.meta.Get(context.Background(), "auth_token")
	if string(cached) != "tok-1" {
		t.Fatalf("token not cached: %q", cached)
	}
	if !a.isLoggedIn() {
		t.Fatalf("expected logged-in state")
	}
}

func TestLogin_Failure(t *testing.T) {
	apiFake := &fakeAPI{loginErr: common.ErrorUnauthorized}
	a := newTestApp(t, apiFake, "ana@x.com\n")
	stubPassword(t, "wrong")

	if err := a.Login(context.Background()); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("want ErrorUnauthorized, got %v", err)
	}
	if a.isLoggedIn() {
		t.Fatalf("must not be logged in after failure")
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	apiFake := &fakeAPI{token: "tok-1"}
	a := newTestApp(t, apiFake, "")
	a.userName = "Ana"
	_ = a.meta.Set(context.Background(), "auth_token", []byte("tok-1"))

	if err := a.Logout(context.Background()); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	if a.isLoggedIn() || a.userName != "" {
		t.Fatalf("session not cleared")
	}
	cached, _ := a.meta.Get(context.Background(), "auth_token")
	if cached != nil {
		t.Fatalf("cached token not removed: %q", cached)
	}
}

func TestRegister_ForwardsFields(t *testing.T) {
	apiFake := &fakeAPI{}
	a := newTestApp(t, apiFake, "Ana\nana@x.com\n")
	stubPassword(t, "secret1")

	if err := a.Register(context.Background()); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if len(apiFake.registered) != 1 || apiFake.registered[0] != "ana@x.com" {
		t.Fatalf("registration not forwarded: %v", apiFake.registered)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	a := newTestApp(t, &fakeAPI{}, "")

	if err := a.Upload(context.Background(), filepath.Join(t.TempDir(), "ghost.png")); err == nil {
		t.Fatalf("want error for missing file")
	}
	if a.machine.Step() != studio.StepUpload {
		t.Fatalf("flow must not advance on failed upload")
	}
}

func TestUpload_AdvancesFlow(t *testing.T) {
	a := newTestApp(t, &fakeAPI{}, "")

	path := filepath.Join(t.TempDir(), "product.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nrest"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := a.Upload(context.Background(), path); err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if a.machine.Step() != studio.StepConfigure {
		t.Fatalf("want CONFIGURE, got %s", a.machine.Step())
	}
}

func TestGenerate_SaveOutcomeReportedAfterSaveFinishes(t *testing.T) {
	var lines []string
	origPrint := printlnFn
	printlnFn = func(args ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(args...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })

	logger := logging.NewNop()
	a := &App{
		machine: studio.NewMachine(noopGenerator{}, slowFailSaver{}, logger),
		logger:  logger,
		out:     &bytes.Buffer{},
	}
	a.machine.Upload(studio.UploadedImage{Base64: "abc", MimeType: "image/png"})

	if err := a.Generate(context.Background()); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	out := strings.Join(lines, "")
	if strings.Contains(out, "Photos saved to your gallery.") {
		t.Fatalf("save success claimed although the save failed:\n%s", out)
	}
	if !strings.Contains(out, "could not be saved to your gallery") {
		t.Fatalf("save failure not reported to the user:\n%s", out)
	}
}

func TestGenerate_ReportsSaveSuccess(t *testing.T) {
	var lines []string
	origPrint := printlnFn
	printlnFn = func(args ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(args...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })

	logger := logging.NewNop()
	a := &App{
		machine: studio.NewMachine(noopGenerator{}, noopSaver{}, logger),
		logger:  logger,
		out:     &bytes.Buffer{},
	}
	a.machine.Upload(studio.UploadedImage{Base64: "abc", MimeType: "image/png"})

	if err := a.Generate(context.Background()); err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	out := strings.Join(lines, "")
	if !strings.Contains(out, "Photos saved to your gallery.") {
		t.Fatalf("successful save not reported:\n%s", out)
	}
}

func TestAge_InvalidInput(t *testing.T) {
	a := newTestApp(t, &fakeAPI{}, "")

	if err := a.Age(context.Background(), "abc"); err == nil {
		t.Fatalf("want error for non-numeric age")
	}
	if a.machine.Config().Age != 18 {
		t.Fatalf("config must stay at default")
	}
}

func TestGender_ShortForms(t *testing.T) {
	a := newTestApp(t, &fakeAPI{}, "")

	if err := a.Gender(context.Background(), "m"); err != nil {
		t.Fatalf("Gender error: %v", err)
	}
	if a.machine.Config().Gender != studio.GenderMasculine {
		t.Fatalf("gender not applied: %s", a.machine.Config().Gender)
	}

	if err := a.Gender(context.Background(), "alien"); err == nil {
		t.Fatalf("want error for invalid gender")
	}
	if a.machine.Config().Gender != studio.GenderMasculine {
		t.Fatalf("invalid gender must keep previous value")
	}
}

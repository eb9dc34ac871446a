package app

import (
	"archive/tar"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/doda25-team16/model-service/internal/config"
	"github.com/doda25-team16/model-service/internal/services/textproc"

	"github.com/klauspost/compress/gzip"
)

const testModel = `{
	"format_version": 1,
	"classifier": "decision tree",
	"classes": ["ham", "spam"],
	"vocabulary": {"free": 0},
	"nodes": [
		{"feature": 0, "threshold": 0.5, "left": 1, "right": 2},
		{"leaf": "ham"},
		{"leaf": "spam"}
	]
}`

// bundleWith packs the model file under the given member name into an
// in-memory tar.gz release bundle.
func bundleWith(t *testing.T, memberName string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	hdr := &tar.Header{
		Name:     memberName,
		Mode:     0644,
		Size:     int64(len(testModel)),
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatalf("writing tar header: %v", err)
	}
	if _, err := tw.Write([]byte(testModel)); err != nil {
		t.Fatalf("writing tar body: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("closing tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("closing gzip: %v", err)
	}
	return buf.Bytes()
}

func TestWithClassifierFromRemoteBundle(t *testing.T) {
	bundle := bundleWith(t, "outputs/model.json")
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write(bundle)
	}))
	defer ts.Close()

	cfg := &config.Config{
		Environment: "test",
		ModelDir:    t.TempDir(),
		ModelURL:    ts.URL + "/model-release.tar.gz",
		ModelFile:   "model.json",
	}

	application, err := NewApp(cfg, WithClassifier())
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer application.Close()

	if application.Classifier == nil {
		t.Fatalf("classifier not loaded")
	}
	if got := application.Classifier.Predict(textproc.Prepare("free stuff")); got != "spam" {
		t.Fatalf("unexpected prediction: %s", got)
	}
	if requests != 1 {
		t.Fatalf("expected one download, got %d", requests)
	}

	// restart against the same cache: no new download
	second, err := NewApp(cfg, WithClassifier())
	if err != nil {
		t.Fatalf("restart NewApp failed: %v", err)
	}
	defer second.Close()
	if requests != 1 {
		t.Fatalf("restart must reuse the cache, got %d downloads", requests)
	}
}

func TestWithClassifierFailsWhenBundleLacksModel(t *testing.T) {
	bundle := bundleWith(t, "outputs/wrong-name.json")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bundle)
	}))
	defer ts.Close()

	cfg := &config.Config{
		Environment: "test",
		ModelDir:    t.TempDir(),
		ModelURL:    ts.URL + "/model-release.tar.gz",
		ModelFile:   "model.json",
	}

	if _, err := NewApp(cfg, WithClassifier()); err == nil {
		t.Fatalf("expected startup to fail when the bundle lacks the model file")
	}
}

func TestWithClassifierFromLocalModel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "model.json"), []byte(testModel), 0644); err != nil {
		t.Fatalf("seeding model: %v", err)
	}

	cfg := &config.Config{
		Environment: "test",
		ModelDir:    dir,
		ModelFile:   "model.json",
	}

	application, err := NewApp(cfg, WithClassifier())
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer application.Close()

	if application.Classifier == nil {
		t.Fatalf("classifier not loaded")
	}
}

func TestWithClassifierFailsOnCorruptModel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "model.json"), []byte("garbage"), 0644); err != nil {
		t.Fatalf("seeding model: %v", err)
	}

	cfg := &config.Config{
		Environment: "test",
		ModelDir:    dir,
		ModelFile:   "model.json",
	}

	if _, err := NewApp(cfg, WithClassifier()); err == nil {
		t.Fatalf("expected startup to fail on an unreadable model")
	}
}

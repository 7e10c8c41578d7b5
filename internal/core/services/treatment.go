package services

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// Ensure TreatmentService implements the interface.
var _ driving.TreatmentService = (*TreatmentService)(nil)

// treatmentSearchURL is the fallback when no local document exists.
const treatmentSearchURL = "https://en.wikipedia.org/w/index.php?search="

// TreatmentService resolves treatment information for a diagnosed disease.
type TreatmentService struct {
	dir    string
	exists func(path string) bool
	open   func(target string) error
}

// NewTreatmentService creates a treatment service looking for local
// "<disease>.html" documents in dir.
func NewTreatmentService(dir string) *TreatmentService {
	return &TreatmentService{
		dir:    dir,
		exists: fileExists,
		open:   openURL,
	}
}

// SetOpener overrides how links are opened.
func (s *TreatmentService) SetOpener(open func(target string) error) {
	s.open = open
}

// Resolve returns the local treatment document when present, else a
// web search URL for the disease.
func (s *TreatmentService) Resolve(disease string) (driving.TreatmentLink, error) {
	disease = strings.TrimSpace(disease)
	if disease == "" || disease == domain.NoMatch {
		return driving.TreatmentLink{}, fmt.Errorf("%w: %q", domain.ErrNoTreatment, disease)
	}

	if s.dir != "" {
		path := filepath.Join(s.dir, disease+".html")
		if s.exists(path) {
			return driving.TreatmentLink{Disease: disease, Target: path, Local: true}, nil
		}
	}

	return driving.TreatmentLink{
		Disease: disease,
		Target:  treatmentSearchURL + strings.ReplaceAll(disease, " ", "+"),
	}, nil
}

// Open resolves the link and opens it with the system default handler.
func (s *TreatmentService) Open(_ context.Context, disease string) (driving.TreatmentLink, error) {
	link, err := s.Resolve(disease)
	if err != nil {
		return link, err
	}
	logger.Debug("Opening treatment for %s: %s", link.Disease, link.Target)
	if err := s.open(link.Target); err != nil {
		return link, fmt.Errorf("open %s: %w", link.Target, err)
	}
	return link, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// openURL opens a URL/path using the system default handler.
func openURL(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

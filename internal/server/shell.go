package server

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/livetemplate/livetemplate"

	"github.com/creatorhub/linkpage"
	"github.com/creatorhub/linkpage/internal/theme"
)

// shellTemplate is the preview shell around the section tree: the page
// header with the creator name on the themed background. The client applies
// tree updates from this template to the shell region and render-tree
// envelopes to the section area below it.
const shellTemplate = `<header class="page-shell{{if .Dark}} dark{{end}}" style="background:{{.Background}}">
  <h1 style="color:{{.Foreground}}">{{.DisplayName}}</h1>
</header>`

// shellState is the data the shell template renders from.
type shellState struct {
	DisplayName string
	Background  string
	Dark        bool
	Foreground  string
}

func shellStateOf(p *linkpage.Page) shellState {
	th := theme.Resolve(p.Background)
	return shellState{
		DisplayName: p.DisplayName,
		Background:  p.Background,
		Dark:        th.IsDark,
		Foreground:  th.Foreground(),
	}
}

// newShellTemplate parses the preview shell. livetemplate.New requires
// template files, so the inline source is written to a temp file first.
func newShellTemplate() (*livetemplate.Template, error) {
	tmpFile := filepath.Join(os.TempDir(), "linkpage-shell.tmpl")
	if err := os.WriteFile(tmpFile, []byte(shellTemplate), 0644); err != nil {
		return nil, fmt.Errorf("failed to write shell template: %w", err)
	}
	defer os.Remove(tmpFile)

	tmpl, err := livetemplate.New("shell", livetemplate.WithParseFiles(tmpFile))
	if err != nil {
		return nil, fmt.Errorf("failed to parse shell template: %w", err)
	}
	return tmpl, nil
}

// renderShellUpdates renders the shell tree update for the current page.
func (s *Server) renderShellUpdates() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.shell.ExecuteUpdates(&buf, shellStateOf(s.composer.Page())); err != nil {
		return nil, fmt.Errorf("failed to render shell: %w", err)
	}
	return buf.Bytes(), nil
}

package commands

import (
	"fmt"
	"os"
	"text/template"
)

// NewCommand implements the new command: it writes a starter page file.
func NewCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: linkpage new <id>")
	}
	id := args[0]
	filename := id + ".yaml"

	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("%s already exists", filename)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer f.Close()

	tmpl := template.Must(template.New("page").Parse(pageTemplate))
	if err := tmpl.Execute(f, map[string]string{"ID": id}); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	fmt.Printf("✅ Created %s\n", filename)
	fmt.Printf("   Run 'linkpage serve %s' to start editing\n", filename)
	return nil
}

const pageTemplate = `id: {{.ID}}
display_name: Your Name
background: "#ffffff"

order:
  - exclusive-content
  - my-links

exclusive:
  items:
    - id: first-drop
      title: My first drop
      price: $10
      countdown_minutes: 30
      countdown_seconds: 0

sections:
  - id: my-links
    name: My links
    type: links
    layout: list
    items:
      - id: website
        title: My website
        url: https://example.com
      - id: contact
        title: Email me
        url: hello@example.com
        is_email: true
`

package commands

import (
	"fmt"

	"github.com/creatorhub/linkpage"
)

// ValidateCommand implements the validate command.
func ValidateCommand(args []string) error {
	pageFile := "page.yaml"
	if len(args) > 0 {
		pageFile = args[0]
	}

	page, warnings, err := linkpage.ParseFile(pageFile)
	if err != nil {
		if vErr, ok := err.(*linkpage.ValidationError); ok {
			fmt.Println(vErr.Format())
			return fmt.Errorf("validation failed")
		}
		return err
	}

	for _, warning := range warnings {
		fmt.Println(warning.String())
	}

	sections := page.OrderedSections()
	items := 0
	for _, sec := range sections {
		switch s := sec.(type) {
		case *linkpage.ExclusiveContent:
			items += len(s.Items)
		case *linkpage.CustomSection:
			items += len(s.Items)
		}
	}

	fmt.Printf("✅ %s is valid: %d section(s), %d item(s)", pageFile, len(sections), items)
	if len(warnings) > 0 {
		fmt.Printf(", %d warning(s)", len(warnings))
	}
	fmt.Println()
	return nil
}

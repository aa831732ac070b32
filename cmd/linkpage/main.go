// Command linkpage serves and edits creator link-in-bio pages.
package main

import (
	"fmt"
	"os"

	"github.com/creatorhub/linkpage/cmd/linkpage/commands"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "serve":
		err = commands.ServeCommand(args)
	case "validate":
		err = commands.ValidateCommand(args)
	case "new":
		err = commands.NewCommand(args)
	case "version":
		fmt.Printf("linkpage version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("linkpage - Creator link-in-bio pages with live preview")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  linkpage serve [page.yaml]     Start the editing server")
	fmt.Println("  linkpage validate [page.yaml]  Validate a page file")
	fmt.Println("  linkpage new <id>              Create a starter page file")
	fmt.Println("  linkpage version               Show version")
	fmt.Println("  linkpage help                  Show this help")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  linkpage serve                       # Serve ./page.yaml")
	fmt.Println("  linkpage serve creator.yaml          # Serve a specific page file")
	fmt.Println("  linkpage serve --port 3000           # Override the listen port")
	fmt.Println("  linkpage validate creator.yaml       # Check a page file for problems")
	fmt.Println("  linkpage new my-page                 # Write my-page.yaml to start from")
}

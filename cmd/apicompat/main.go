// Command apicompat fails when the API document built into this binary drops
// a path, an operation or a response code that a baseline document had.
//
//	apicompat -base api/contract.yml
//	apicompat -write api/contract.yml
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"inkwell/docs"
)

func main() {
	basePath := flag.String("base", "", "baseline OpenAPI document (JSON or YAML)")
	writePath := flag.String("write", "", "write the current contract to this path and exit")
	flag.Parse()

	current, err := parseContract([]byte(docs.SwaggerInfo.ReadDoc()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse built-in API document: %v\n", err)
		os.Exit(1)
	}

	if *writePath != "" {
		raw, err := current.marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode contract: %v\n", err)
			os.Exit(1)
		}
		// #nosec G306: contract files are checked into the repo
		if err := os.WriteFile(*writePath, raw, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write contract: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %d operations to %s\n", current.operationCount(), *writePath)
		return
	}

	if strings.TrimSpace(*basePath) == "" {
		fmt.Fprintln(os.Stderr, "usage: apicompat -base <path> | -write <path>")
		os.Exit(2)
	}

	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read baseline: %v\n", err)
		os.Exit(1)
	}
	base, err := parseContract(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse baseline: %v\n", err)
		os.Exit(1)
	}

	if issues := breakingChanges(base, current); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "API compatibility check failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "- %s\n", issue)
		}
		os.Exit(1)
	}
	fmt.Println("API compatibility check passed")
}

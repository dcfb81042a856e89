package main

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var httpMethods = []string{"get", "put", "post", "delete", "patch", "head", "options"}

// contract is the part of an OpenAPI document clients depend on:
// path -> method -> response codes.
type contract map[string]map[string][]string

type rawOperation struct {
	Responses map[string]yaml.Node `yaml:"responses"`
}

type rawDocument struct {
	Paths map[string]map[string]yaml.Node `yaml:"paths"`
}

// parseContract reads a swagger 2 / OpenAPI 3 document. JSON is valid YAML,
// so both encodings work.
func parseContract(raw []byte) (contract, error) {
	var doc rawDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		return nil, errors.New("missing top-level paths field")
	}

	out := make(contract, len(doc.Paths))
	for path, item := range doc.Paths {
		for key, node := range item {
			method := strings.ToLower(strings.TrimSpace(key))
			if !slices.Contains(httpMethods, method) {
				continue
			}
			var op rawOperation
			if err := node.Decode(&op); err != nil {
				return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(method), path, err)
			}
			codes := make([]string, 0, len(op.Responses))
			for code := range op.Responses {
				codes = append(codes, strings.ToLower(strings.TrimSpace(code)))
			}
			sort.Strings(codes)

			if out[path] == nil {
				out[path] = make(map[string][]string)
			}
			out[path][method] = codes
		}
	}
	return out, nil
}

func (c contract) operationCount() int {
	n := 0
	for _, ops := range c {
		n += len(ops)
	}
	return n
}

// marshal writes the contract as a minimal OpenAPI-shaped YAML document
// that parseContract reads back.
func (c contract) marshal() ([]byte, error) {
	paths := make(map[string]map[string]map[string]map[string]string, len(c))
	for path, ops := range c {
		paths[path] = make(map[string]map[string]map[string]string, len(ops))
		for method, codes := range ops {
			responses := make(map[string]string, len(codes))
			for _, code := range codes {
				responses[code] = ""
			}
			paths[path][method] = map[string]map[string]string{"responses": responses}
		}
	}
	return yaml.Marshal(map[string]any{"paths": paths})
}

// breakingChanges lists what base had that revision no longer has.
func breakingChanges(base, revision contract) []string {
	var issues []string
	for path, baseOps := range base {
		revOps, ok := revision[path]
		if !ok {
			issues = append(issues, "removed path: "+path)
			continue
		}
		for method, codes := range baseOps {
			revCodes, ok := revOps[method]
			if !ok {
				issues = append(issues, fmt.Sprintf("removed operation: %s %s", strings.ToUpper(method), path))
				continue
			}
			for _, code := range codes {
				if !slices.Contains(revCodes, code) {
					issues = append(issues, fmt.Sprintf("removed response code: %s %s -> %s",
						strings.ToUpper(method), path, strings.ToUpper(code)))
				}
			}
		}
	}
	sort.Strings(issues)
	return issues
}

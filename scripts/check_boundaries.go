package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "ledgervote"

// chainLibrary may only be imported by chainAdapter inside the contexts tree.
const (
	chainLibrary = "github.com/ethereum/go-ethereum"
	chainAdapter = "governance/election-engine/adapters/ethereum"
)

// applicationLibraries are the third-party packages use cases may import.
var applicationLibraries = []string{
	"github.com/samber/lo",
}

// location places a source file inside contexts/<group>/<service>/<layer>/...
// Files under contracts/ have an empty service.
type location struct {
	file    string
	group   string
	service string
	layer   string
	rest    string
}

func (l location) servicePrefix() string {
	return modulePath + "/contexts/" + l.group + "/" + l.service
}

type rule struct {
	name    string
	applies func(location) bool
	allowed func(location, string) bool
}

var rules = []rule{
	{
		name:    "services exchange data through bootstrap bridges, never by import",
		applies: inService,
		allowed: func(loc location, imp string) bool {
			return !hasPrefix(imp, modulePath+"/contexts") || hasPrefix(imp, loc.servicePrefix())
		},
	},
	{
		name:    "domain imports only the standard library and its own domain",
		applies: inLayer("domain"),
		allowed: func(loc location, imp string) bool {
			return isStdlib(imp) || hasPrefix(imp, loc.servicePrefix()+"/domain")
		},
	},
	{
		name:    "ports import only their domain and the event contracts",
		applies: inLayer("ports"),
		allowed: func(loc location, imp string) bool {
			return isStdlib(imp) ||
				hasPrefix(imp, loc.servicePrefix()+"/domain") ||
				hasPrefix(imp, modulePath+"/contracts")
		},
	},
	{
		name:    "application imports only its service core, the event contracts and allowed libraries",
		applies: inLayer("application"),
		allowed: func(loc location, imp string) bool {
			if isStdlib(imp) || hasPrefix(imp, modulePath+"/contracts") {
				return true
			}
			for _, layer := range []string{"application", "domain", "ports"} {
				if hasPrefix(imp, loc.servicePrefix()+"/"+layer) {
					return true
				}
			}
			return isAllowed(imp, applicationLibraries)
		},
	},
	{
		name:    "chain primitives are confined to the election engine ethereum adapter",
		applies: inService,
		allowed: func(loc location, imp string) bool {
			if !hasPrefix(imp, chainLibrary) {
				return true
			}
			return loc.group+"/"+loc.service+"/"+loc.layer+"/"+firstSegment(loc.rest) == chainAdapter
		},
	},
	{
		name:    "event contracts depend on the standard library only",
		applies: func(loc location) bool { return loc.service == "" },
		allowed: func(_ location, imp string) bool { return isStdlib(imp) },
	},
}

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

func main() {
	violations := collectViolations(".")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

// collectViolations checks every non-test Go file under root/contexts and
// root/contracts. Results are sorted by file, line and import.
func collectViolations(root string) []violation {
	var violations []violation
	for _, dir := range []string{"contexts", "contracts"} {
		base := filepath.Join(root, dir)
		_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			loc, ok := locate(filepath.ToSlash(rel))
			if !ok {
				return nil
			}
			violations = append(violations, checkFile(path, loc)...)
			return nil
		})
	}

	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Import < b.Import
	})
	return violations
}

func locate(rel string) (location, bool) {
	parts := strings.Split(rel, "/")
	switch {
	case parts[0] == "contracts":
		return location{file: rel}, true
	case parts[0] == "contexts" && len(parts) >= 4:
		loc := location{file: rel, group: parts[1], service: parts[2], layer: parts[3]}
		if len(parts) > 4 {
			loc.rest = strings.Join(parts[4:], "/")
		}
		return loc, true
	default:
		return location{}, false
	}
}

func checkFile(path string, loc location) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: loc.file, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		for _, r := range rules {
			if r.applies(loc) && !r.allowed(loc, importPath) {
				violations = append(violations, violation{
					File:   loc.file,
					Line:   fset.Position(imp.Pos()).Line,
					Import: importPath,
					Rule:   r.name,
				})
			}
		}
	}
	return violations
}

func inService(loc location) bool {
	return loc.service != ""
}

func inLayer(layer string) func(location) bool {
	return func(loc location) bool { return loc.service != "" && loc.layer == layer }
}

func firstSegment(path string) string {
	if idx := strings.Index(path, "/"); idx != -1 {
		return path[:idx]
	}
	return path
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, p := range allowedPrefixes {
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	return !strings.Contains(firstSegment(importPath), ".")
}

package main

import (
	"fmt"
	"strings"
)

// Run executes the fields command.
func (c *FieldsCmd) Run(deps *Dependencies) error {
	for _, s := range deps.Registry.Selectors() {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", s.Name, s.Kind, strings.Join(s.Paths, " "))
	}
	return nil
}

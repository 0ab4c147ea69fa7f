package main

import (
	"fmt"

	"github.com/fwojciec/irs990"
)

// Run executes the regions command.
func (c *RegionsCmd) Run(deps *Dependencies) error {
	regions := irs990.Regions()
	if c.Remote {
		remote, err := deps.Regions.ListRegions(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", irs990.ErrorMessage(err))
			return err
		}
		regions = remote
	}

	for _, r := range regions {
		fmt.Fprintln(deps.Stdout, string(r))
	}
	return nil
}

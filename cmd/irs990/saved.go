package main

import (
	"fmt"

	"github.com/fwojciec/irs990"
)

// Run executes the saved list command.
func (c *SavedListCmd) Run(deps *Dependencies) error {
	filter := irs990.SavedFilingFilter{Offset: c.Offset, Limit: c.Limit}
	if c.ObjectID != "" {
		filter.ObjectID = &c.ObjectID
	}

	saved, err := deps.SavedFilings.FindSavedFilings(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", irs990.ErrorMessage(err))
		return err
	}

	if len(saved) == 0 {
		fmt.Fprintln(deps.Stdout, "No saved filings. Use 'irs990 query --save' to add some.")
		return nil
	}

	if c.Full {
		fmt.Fprintln(deps.Stdout, irs990.FormatSavedFilings(saved))
		return nil
	}

	for _, f := range saved {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s\n", f.ID, f.ObjectID, f.CreatedAt.Format("2006-01-02"), f.Fields["business_name"].String())
	}

	return nil
}

// Run executes the saved delete command.
func (c *SavedDeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return irs990.Errorf(irs990.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.SavedFilings.DeleteSavedFiling(deps.Ctx, c.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", irs990.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted saved filing %q\n", c.ID)
	return nil
}

package cli

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"

	"github.com/cpimport/cpimport/pkg/domain/model"
)

// writeResult serializes a pipeline result as JSON for the orchestrating
// workflow
func writeResult(w io.Writer, result *model.ImportResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return goerr.Wrap(err, "failed to encode result")
	}
	return nil
}

// progressPrinter returns a progress receiver rendering extraction progress
// to the console
func progressPrinter() model.ProgressFunc {
	c := color.New(color.FgCyan)
	return func(p model.Progress) {
		c.Printf("extracting... %d%% (%d/%d)\n", p.Percent, p.Done, p.Total)
	}
}

package bench

import (
	"fmt"
	"io"

	"github.com/sugawarayuuta/sonnet"
)

// WriteText prints the report in the tester's plain format, with times in
// microseconds.
func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Generation: %d usec\n", r.Generation.Microseconds()); err != nil {
		return err
	}
	for _, res := range r.Results {
		_, err := fmt.Fprintf(w, "Hash table %s: %d usec\n  - %d missing\n",
			res.Variant, res.AddElapsed.Microseconds(), res.Missing)
		if err != nil {
			return err
		}
		if res.Mismatched > 0 {
			if _, err := fmt.Fprintf(w, "  - %d wrong values\n", res.Mismatched); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteJSON writes the report as a single JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	data, err := sonnet.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

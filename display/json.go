package display

import (
	"encoding/json"
	"io"
	"os"

	"github.com/teranos/gridsense/errors"
)

// Stdout is where OutputJSON writes; tests swap it.
var Stdout io.Writer = os.Stdout

// MarshalJSON marshals v with two-space indentation.
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// OutputJSON prints v as indented JSON followed by a newline.
func OutputJSON(v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return errors.Wrap(err, "failed to marshal JSON")
	}
	_, err = Stdout.Write(append(data, '\n'))
	return errors.Wrap(err, "failed to write JSON")
}

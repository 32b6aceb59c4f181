package utils

import (
	"encoding"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// SerializedSize returns how many bytes object takes on the wire
func SerializedSize(object any) (int, error) {
	switch object := object.(type) {
	case encoding.BinaryMarshaler:
		data, err := object.MarshalBinary()
		if err != nil {
			return 0, fmt.Errorf("%T.MarshalBinary: %w", object, err)
		}
		return len(data), nil
	case io.WriterTo:
		n, err := object.WriteTo(io.Discard)
		if err != nil {
			return 0, fmt.Errorf("%T.WriteTo: %w", object, err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%T does not implement io.WriterTo or encoding.BinaryMarshaler", object)
	}
}

// SaveToJSON writes object, indented, to path
func SaveToJSON(logger Logger, path string, object any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s): %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err = enc.Encode(object); err != nil {
		return fmt.Errorf("json.Encode: %w", err)
	}
	logger.PrintFormatted("Saved %T to %s", object, path)
	return nil
}

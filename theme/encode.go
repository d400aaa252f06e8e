package theme

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"masq/storage"
)

const fileHeader = "# masq theme\n# Colors are packed 0xRRGGBB (or 0xRRGGBBAA) integers.\n\n"

// Encode serializes t into the theme file format.
func Encode(t Theme) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)

	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(document{Theme: t}); err != nil {
		return nil, fmt.Errorf("encode theme: %w", err)
	}
	return buf.Bytes(), nil
}

// Generate writes t to path, creating parent directories as needed.
func Generate(path string, t Theme) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	if _, _, err := storage.New("").WriteFile(path, data); err != nil {
		return fmt.Errorf("write theme file: %w", err)
	}
	return nil
}

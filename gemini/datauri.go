package gemini

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ParseDataURI splits a data URI into its MIME subtype and decoded bytes.
// "data:image/jpeg;base64,AAAA" yields ("jpeg", bytes).
func ParseDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("not a data URI")
	}
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}

	meta := strings.TrimPrefix(header, "data:")
	meta = strings.TrimSuffix(meta, ";base64")
	subtype := "jpeg"
	if mime := strings.TrimPrefix(meta, "image/"); mime != meta && mime != "" {
		subtype = mime
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode data URI payload: %w", err)
	}
	return subtype, data, nil
}

// PNGDataURI re-encodes raw image bytes as a PNG data URI, the one image
// format the app passes around.
func PNGDataURI(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

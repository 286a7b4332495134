package assets

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/angelmondragon/siteadmin-backend/pkg/enums"
)

// sniffLen is how many leading bytes are inspected to detect content type.
const sniffLen = 3072

var allowedTypesByKind = map[enums.AssetKind][]string{
	enums.AssetKindImage: {
		"image/png",
		"image/jpeg",
		"image/webp",
		"image/gif",
		"image/svg+xml",
		"image/x-icon",
	},
	enums.AssetKindDocument: {"application/pdf"},
}

var kindDescriptions = map[enums.AssetKind]string{
	enums.AssetKindImage:    "PNG, JPEG, WebP, GIF, SVG or ICO images",
	enums.AssetKindDocument: "PDF documents",
}

// detect sniffs head and checks it against the kinds allowed for the slot.
func detect(head []byte, kind enums.AssetKind) (*mimetype.MIME, error) {
	allowed, ok := allowedTypesByKind[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported asset kind %q", kind)
	}
	mtype := mimetype.Detect(head)
	for _, candidate := range allowed {
		if mtype.Is(candidate) {
			return mtype, nil
		}
	}
	return nil, fmt.Errorf("file type %s is not allowed; expected %s", mtype.String(), kindDescriptions[kind])
}

// baseType strips parameters such as charset from a detected type.
func baseType(mtype *mimetype.MIME) string {
	value := mtype.String()
	if idx := strings.Index(value, ";"); idx >= 0 {
		value = value[:idx]
	}
	return strings.TrimSpace(value)
}

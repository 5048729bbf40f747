package media

import (
	"path"
	"strings"
)

// DeriveSKU reads the SKU encoded in an image file name: the text before the
// first "-" of the base name, with "_" standing in for "/".
//
//	ABC123-photo1.jpg -> ABC123
//	AB_12-img.png     -> AB/12
func DeriveSKU(name string) string {
	base := path.Base(name)
	sku, _, _ := strings.Cut(base, "-")
	return strings.ReplaceAll(strings.TrimSpace(sku), "_", "/")
}

package manifest

import (
	"regexp"
	"strings"
)

var pathComponentRegex = regexp.MustCompile(`^[a-z0-9]+$`)

// PluginName derives the check name from an image reference. The tag or digest is
// dropped, and of the path components before the image only lowercase alphanumeric
// ones are kept, of which the last is joined with the image name:
//
//	localhost:5000/sider/eslint:1.0  ->  sider/eslint
//	eslint:latest                    ->  eslint
//	ghcr.io/sider/rubocop@sha256:ab  ->  sider/rubocop
func PluginName(ref string) string {
	parts := strings.Split(ref, "/")
	image := parts[len(parts)-1]
	if i := strings.IndexByte(image, '@'); i >= 0 {
		image = image[:i]
	}
	if i := strings.IndexByte(image, ':'); i >= 0 {
		image = image[:i]
	}
	if image == "" {
		return ""
	}

	owner := ""
	for _, p := range parts[:len(parts)-1] {
		if pathComponentRegex.MatchString(p) {
			owner = p
		}
	}
	if owner == "" {
		return image
	}
	return owner + "/" + image
}

package assets

import "fmt"

// maxNameLen bounds template names; real ones are short slugs.
const maxNameLen = 64

// ValidateAssetName accepts lowercase slugs such as "movie-card": ASCII
// letters, digits and inner hyphens. Anything else, including separators
// and dots, is ErrInvalidAssetName, so a name can never leave the template
// directory or pick its own extension.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidAssetName, maxNameLen)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '-' && i > 0 && i < len(name)-1:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}

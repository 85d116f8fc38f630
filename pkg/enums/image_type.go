package enums

import "fmt"

// ImageType defines which part of a tour an uploaded image belongs to.
type ImageType string

const (
	ImageTypeTour        ImageType = "tour"
	ImageTypeDestination ImageType = "destination"
)

var validImageTypes = []ImageType{
	ImageTypeTour,
	ImageTypeDestination,
}

// String returns the literal string for the type.
func (i ImageType) String() string {
	return string(i)
}

// IsValid reports whether the type is known.
func (i ImageType) IsValid() bool {
	for _, candidate := range validImageTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseImageType converts raw input into an ImageType.
func ParseImageType(value string) (ImageType, error) {
	for _, candidate := range validImageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid image type %q", value)
}

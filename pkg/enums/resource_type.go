package enums

import "fmt"

// ResourceType identifies the owning resource for an upload batch.
type ResourceType string

const (
	ResourceTypeTour    ResourceType = "tour"
	ResourceTypeCompany ResourceType = "company"
	ResourceTypeUser    ResourceType = "user"
)

var validResourceTypes = []ResourceType{
	ResourceTypeTour,
	ResourceTypeCompany,
	ResourceTypeUser,
}

// String returns the literal string for the type.
func (r ResourceType) String() string {
	return string(r)
}

// IsValid reports whether the type is known.
func (r ResourceType) IsValid() bool {
	for _, candidate := range validResourceTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseResourceType converts raw input into a ResourceType.
func ParseResourceType(value string) (ResourceType, error) {
	for _, candidate := range validResourceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid resource type %q", value)
}

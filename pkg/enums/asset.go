package enums

import "fmt"

// AssetKind classifies uploaded media and drives per-kind size/extension rules.
type AssetKind string

const (
	AssetKindLogo         AssetKind = "logo"
	AssetKindBanner       AssetKind = "banner"
	AssetKindVideo        AssetKind = "video"
	AssetKindVehicleImage AssetKind = "vehicle_image"
)

var validAssetKinds = []AssetKind{
	AssetKindLogo,
	AssetKindBanner,
	AssetKindVideo,
	AssetKindVehicleImage,
}

// String implements fmt.Stringer.
func (k AssetKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known AssetKind.
func (k AssetKind) IsValid() bool {
	for _, candidate := range validAssetKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseAssetKind converts raw input into an AssetKind.
func ParseAssetKind(value string) (AssetKind, error) {
	for _, candidate := range validAssetKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid asset kind %q", value)
}

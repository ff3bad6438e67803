// ABOUTME: Version information for audioscope
// ABOUTME: Product name, manufacturer and release version
package version

const (
	// Version is the release version
	Version = "0.1.0"

	// Product is the user-facing product name
	Product = "audioscope"

	// Manufacturer identifies the publisher in feed announcements
	Manufacturer = "harperreed"
)

// String returns the product name followed by the release version.
func String() string {
	return Product + " " + Version
}

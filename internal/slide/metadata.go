// Package slide extracts acquisition metadata from whole-slide image vendor
// formats. Each vendor adapter implements the same Metadata contract; there
// is no shared base type, only independent implementations.
package slide

// Metadata is the vendor-neutral view of slide acquisition parameters.
// Numeric fields return nil when the vendor file does not record them;
// a missing value is an explicit unknown, never an error.
type Metadata interface {
	// Magnification is the nominal objective magnification.
	Magnification() *float64

	// MPPX, MPPY and MPPZ are the physical pixel sizes in meters per
	// pixel along each axis.
	MPPX() *float64
	MPPY() *float64
	MPPZ() *float64

	// ChannelNames lists acquisition channel names in channel order, or
	// nil when the format does not record channels.
	ChannelNames() []string

	// ImageType identifies the vendor format (for example "czi").
	ImageType() string
}

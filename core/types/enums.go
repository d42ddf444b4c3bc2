// Package types - Domain model for shop-scoped pricing
package types

// ProductType selects the pricing model for a product.
type ProductType string

const (
	// ProductSheet is priced per printed sheet (paper + printing rate).
	ProductSheet ProductType = "SHEET"

	// ProductLargeFormat is priced per square meter of material.
	ProductLargeFormat ProductType = "LARGE_FORMAT"
)

// Valid reports whether the product type is one of the known variants.
func (p ProductType) Valid() bool {
	return p == ProductSheet || p == ProductLargeFormat
}

// SheetSize is a named press sheet format.
type SheetSize string

const (
	SheetA4   SheetSize = "A4"
	SheetA3   SheetSize = "A3"
	SheetSRA3 SheetSize = "SRA3"
)

// SheetSizeDimensions maps named sheet sizes to (width, height) in mm.
var SheetSizeDimensions = map[SheetSize][2]int{
	SheetA4:   {210, 297},
	SheetA3:   {297, 420},
	SheetSRA3: {320, 450},
}

// ColorMode is the printing color mode.
type ColorMode string

const (
	ColorBW    ColorMode = "BW"
	ColorColor ColorMode = "COLOR"
)

// Sides is the number of printed sides.
type Sides string

const (
	SidesSingle Sides = "SINGLE"
	SidesDouble Sides = "DOUBLE"
)

// Count returns the numeric side count (1 or 2). Unset counts as 1.
func (s Sides) Count() int {
	if s == SidesDouble {
		return 2
	}
	return 1
}

// ChargeUnit describes how a finishing rate is charged.
type ChargeUnit string

const (
	ChargePerPiece ChargeUnit = "PER_PIECE"
	ChargePerSide  ChargeUnit = "PER_SIDE"
	ChargePerSheet ChargeUnit = "PER_SHEET"
	ChargePerSQM   ChargeUnit = "PER_SQM"
	ChargeFlat     ChargeUnit = "FLAT"
)

// FieldTag names one missing configuration input. The declaration order is the
// reporting order: per-item missing_fields lists are always emitted in this
// order regardless of discovery order.
type FieldTag int

const (
	FieldPaper FieldTag = iota
	FieldMaterial
	FieldMachine
	FieldPrintingRate
	FieldDimensions
	FieldColorMode
	FieldSides

	numFieldTags
)

var fieldTagNames = [numFieldTags]string{
	FieldPaper:        "PAPER",
	FieldMaterial:     "MATERIAL",
	FieldMachine:      "MACHINE",
	FieldPrintingRate: "PRINTING_RATE",
	FieldDimensions:   "DIMENSIONS",
	FieldColorMode:    "COLOR_MODE",
	FieldSides:        "SIDES",
}

// String returns the stable wire name of the tag.
func (t FieldTag) String() string {
	if t < 0 || t >= numFieldTags {
		return "UNKNOWN"
	}
	return fieldTagNames[t]
}

// AllFieldTags returns every tag in declaration order.
func AllFieldTags() []FieldTag {
	tags := make([]FieldTag, 0, numFieldTags)
	for t := FieldTag(0); t < numFieldTags; t++ {
		tags = append(tags, t)
	}
	return tags
}

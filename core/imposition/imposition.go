// Package imposition estimates how many finished pieces fit on a press sheet.
// Simple grid fit with bleed; 90 degree rotation allowed.
package imposition

// DefaultBleedMM is the bleed added around each piece before fitting.
const DefaultBleedMM = 3

// PiecesPerSheet returns how many pieces of the finished size fit on one
// sheet. Both orientations are tried and the better one wins. Never below 1,
// so a piece larger than the sheet still consumes one sheet per piece.
func PiecesPerSheet(finishedWidthMM, finishedHeightMM, sheetWidthMM, sheetHeightMM, bleedMM int) int {
	pw := finishedWidthMM + 2*bleedMM
	ph := finishedHeightMM + 2*bleedMM
	if pw <= 0 || ph <= 0 || sheetWidthMM <= 0 || sheetHeightMM <= 0 {
		return 1
	}

	n1 := (sheetWidthMM / pw) * (sheetHeightMM / ph)
	n2 := (sheetWidthMM / ph) * (sheetHeightMM / pw)

	n := n1
	if n2 > n {
		n = n2
	}
	if n < 1 {
		return 1
	}
	return n
}

// SheetsNeeded returns ceil(quantity / piecesPerSheet), never below 1.
func SheetsNeeded(quantity, piecesPerSheet int) int {
	if piecesPerSheet <= 0 {
		if quantity < 1 {
			return 1
		}
		return quantity
	}
	sheets := (quantity + piecesPerSheet - 1) / piecesPerSheet
	if sheets < 1 {
		return 1
	}
	return sheets
}

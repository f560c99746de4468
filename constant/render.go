package constant

// Terminal front end layout
const (
	// CellAspect is the height of a terminal cell over its width
	CellAspect = 2.0

	// HUDRows are reserved above and below the playfield border
	HUDRows = 1
)

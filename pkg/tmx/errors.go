package tmx

import "errors"

// Errors that abort a load.
var (
	ErrNoMapElement     = errors.New("tmx: missing <map> root element")
	ErrNoTilesetElement = errors.New("tmx: missing <tileset> root element")
	ErrNoTileset        = errors.New("tmx: map has no tileset")
	ErrTilesetImage     = errors.New("tmx: tileset has no image")
	ErrTileCountUnknown = errors.New("tmx: tileset tile count cannot be inferred")
)

// Errors that skip a single layer.
var (
	ErrMissingLayerData    = errors.New("tmx: layer has no <data>")
	ErrUnsupportedEncoding = errors.New("tmx: unsupported layer encoding")
	ErrInvalidCSV          = errors.New("tmx: invalid CSV tile data")
	ErrLayerSizeMismatch   = errors.New("tmx: layer cell count does not match map size")
)

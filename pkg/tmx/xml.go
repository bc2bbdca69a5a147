package tmx

import "encoding/xml"

// Document structures mirror the TMX/TSX schema. Only the parts the loader
// consumes are declared; everything else is skipped by encoding/xml.

type xmlMap struct {
	XMLName     xml.Name
	Orientation string        `xml:"orientation,attr"`
	RenderOrder string        `xml:"renderorder,attr"`
	Width       int           `xml:"width,attr"`
	Height      int           `xml:"height,attr"`
	TileWidth   int           `xml:"tilewidth,attr"`
	TileHeight  int           `xml:"tileheight,attr"`
	Properties  []xmlProperty `xml:"properties>property"`
	Tilesets    []xmlTileset  `xml:"tileset"`
	Children    []xmlChild    `xml:",any"`
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
	Text  string `xml:",chardata"`
}

type xmlTileset struct {
	XMLName    xml.Name
	FirstGID   uint32    `xml:"firstgid,attr"`
	Source     string    `xml:"source,attr"`
	Name       string    `xml:"name,attr"`
	TileWidth  int       `xml:"tilewidth,attr"`
	TileHeight int       `xml:"tileheight,attr"`
	TileCount  int       `xml:"tilecount,attr"`
	Columns    int       `xml:"columns,attr"`
	Image      *xmlImage `xml:"image"`
	Tiles      []xmlTile `xml:"tile"`
}

type xmlImage struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

type xmlTile struct {
	ID         *int          `xml:"id,attr"`
	Image      *xmlImage     `xml:"image"`
	Properties []xmlProperty `xml:"properties>property"`
	Animation  *xmlAnimation `xml:"animation"`
}

type xmlAnimation struct {
	Frames []xmlFrame `xml:"frame"`
}

type xmlFrame struct {
	TileID   *int `xml:"tileid,attr"`
	Duration int  `xml:"duration,attr"`
}

type xmlLayer struct {
	ID      int      `xml:"id,attr"`
	Name    string   `xml:"name,attr"`
	Width   int      `xml:"width,attr"`
	Height  int      `xml:"height,attr"`
	Visible *int     `xml:"visible,attr"`
	Data    *xmlData `xml:"data"`
}

type xmlData struct {
	Encoding    string `xml:"encoding,attr"`
	Compression string `xml:"compression,attr"`
	Text        string `xml:",chardata"`
}

type xmlGroup struct {
	Name     string     `xml:"name,attr"`
	OffsetX  float32    `xml:"offsetx,attr"`
	OffsetY  float32    `xml:"offsety,attr"`
	Visible  *int       `xml:"visible,attr"`
	Children []xmlChild `xml:",any"`
}

type xmlObjectGroup struct {
	Name    string      `xml:"name,attr"`
	OffsetX float32     `xml:"offsetx,attr"`
	OffsetY float32     `xml:"offsety,attr"`
	Objects []xmlObject `xml:"object"`
}

type xmlObject struct {
	ID         int           `xml:"id,attr"`
	Name       string        `xml:"name,attr"`
	Type       string        `xml:"type,attr"`
	Class      string        `xml:"class,attr"`
	GID        uint32        `xml:"gid,attr"`
	X          float32       `xml:"x,attr"`
	Y          float32       `xml:"y,attr"`
	Width      float32       `xml:"width,attr"`
	Height     float32       `xml:"height,attr"`
	Properties []xmlProperty `xml:"properties>property"`
}

// xmlChild is one layer-like child of a map or group. Decoding children as a
// single slice keeps document order across element kinds.
type xmlChild struct {
	Layer       *xmlLayer
	ObjectGroup *xmlObjectGroup
	Group       *xmlGroup
}

func (c *xmlChild) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	switch start.Name.Local {
	case "layer":
		c.Layer = &xmlLayer{}
		return d.DecodeElement(c.Layer, &start)
	case "objectgroup":
		c.ObjectGroup = &xmlObjectGroup{}
		return d.DecodeElement(c.ObjectGroup, &start)
	case "group":
		c.Group = &xmlGroup{}
		return d.DecodeElement(c.Group, &start)
	default:
		return d.Skip()
	}
}

func visibleAttr(v *int) bool {
	return v == nil || *v != 0
}

func propertyMap(props []xmlProperty) map[string]string {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]string, len(props))
	for _, p := range props {
		out[p.Name] = p.value()
	}
	return out
}

// value returns the property value. Multi-line string properties store their
// value as element text instead of an attribute.
func (p xmlProperty) value() string {
	if p.Value != "" {
		return p.Value
	}
	return p.Text
}

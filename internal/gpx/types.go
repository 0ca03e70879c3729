package gpx

import "encoding/xml"

// Point is a GPX track point as written in the file. Optional numeric
// children are pointers so a missing element reads as 0.
type Point struct {
	Lat       float64  `xml:"lat,attr"`
	Lon       float64  `xml:"lon,attr"`
	Elevation *float64 `xml:"ele"`
	Time      string   `xml:"time"`

	// GPX 1.0 puts speed on the point; 1.1 writers move it into extensions.
	Speed    *float64 `xml:"speed"`
	ExtSpeed *float64 `xml:"extensions>speed"`
	TPXSpeed *float64 `xml:"extensions>TrackPointExtension>speed"`
}

// Track represents a GPX track with segments
type Track struct {
	Name     string         `xml:"name,omitempty"`
	Segments []TrackSegment `xml:"trkseg"`
}

// TrackSegment represents a track segment
type TrackSegment struct {
	Points []Point `xml:"trkpt"`
}

// GPX represents the parts of a GPX document the converter reads.
type GPX struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`
	Tracks  []Track  `xml:"trk"`
}

// Package kml writes the probe's flight trajectory as a KML LineString for
// cross-referencing against the sensor trajectory in an earth viewer. The
// track is subsampled; full sample density adds nothing at map scale.
package kml

import (
	"fmt"
	"os"
	"strings"

	"github.com/aerosurvey/probe-qc/internal/domain"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2" xmlns:gx="http://www.google.com/kml/ext/2.2" xmlns:kml="http://www.opengis.net/kml/2.2" xmlns:atom="http://www.w3.org/2005/Atom">
<Document>
    <Style id="sn_ylw-pushpin">
        <LineStyle>
            <color>ffff0000</color>
            <width>5</width>
        </LineStyle>
        <PolyStyle>
            <color>7f00ff00</color>
            <colorMode>random</colorMode>
        </PolyStyle>
    </Style>
    <StyleMap id="sn_ylw-pushpin0">
        <Pair>
            <key>normal</key>
            <styleUrl>#sn_ylw-pushpin1</styleUrl>
        </Pair>
        <Pair>
            <key>highlight</key>
            <styleUrl>#sn_ylw-pushpin</styleUrl>
        </Pair>
    </StyleMap>
    <Style id="sn_ylw-pushpin1">
        <LineStyle>
            <color>ffff0000</color>
            <width>5</width>
        </LineStyle>
        <PolyStyle>
            <color>7f00ff00</color>
            <colorMode>random</colorMode>
        </PolyStyle>
    </Style>
    <Placemark>
        <name>AIMMS Trajectory</name>
        <description>Probe QC flight track</description>
        <styleUrl>#sn_ylw-pushpin0</styleUrl>
        <LineString>
            <tessellate>1</tessellate>
            <altitudeMode>absolute</altitudeMode>
            <coordinates>
`

const footer = `         </coordinates>
        </LineString>
    </Placemark>
</Document>
</kml>`

// Render builds the KML document for a record series, keeping every
// stride-th record.
func Render(series domain.Series, stride int) string {
	if stride < 1 {
		stride = 1
	}
	var b strings.Builder
	b.WriteString(header)
	for i := 0; i < len(series.Records); i += stride {
		r := series.Records[i]
		fmt.Fprintf(&b, "\t\t\t\t%g,%g,%g\n", r.Long, r.Lat, r.Z)
	}
	b.WriteString(footer)
	return b.String()
}

// Write renders the trajectory and writes it to path in one shot.
func Write(path string, series domain.Series, stride int) error {
	if err := os.WriteFile(path, []byte(Render(series, stride)), 0o644); err != nil {
		return fmt.Errorf("write kml: %w", err)
	}
	return nil
}

package datastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/wayroute/pkg"
	"github.com/paulmach/orb"
)

const noTravelTime = "-"

// WriteGraph writes the network as bzip2 compressed text.
func (g *Graph) WriteGraph(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}

	if err := g.Encode(bz); err != nil {
		bz.Close()
		return err
	}
	return bz.Close()
}

// Encode writes the uncompressed text form of g:
// a header line "numVertices numEdges", one "osmId lat lon" line per vertex,
// then per edge a line "edgeId source target length travelTime highway tunnel bridge n lon lat ..." followed by its quoted name.
func (g *Graph) Encode(out io.Writer) error {
	w := bufio.NewWriter(out)

	fmt.Fprintf(w, "%d %d\n", g.NumberOfVertices(), g.NumberOfEdges())

	g.ForVertices(func(_ Index, v *Vertex) {
		fmt.Fprintf(w, "%d %s %s\n", v.osmId, formatFloat(v.lat), formatFloat(v.lon))
	})

	g.ForEdges(func(_ Index, e *Edge) {
		travelTime := noTravelTime
		if e.hasTravelTime {
			travelTime = formatFloat(e.travelTime)
		}
		fmt.Fprintf(w, "%d %d %d %s %s %d %t %t %d",
			e.edgeId, g.vertices[e.tail].osmId, g.vertices[e.head].osmId,
			formatFloat(e.length), travelTime, e.hwType, e.tunnel, e.bridge, len(e.geometry))
		for _, p := range e.geometry {
			fmt.Fprintf(w, " %s %s", formatFloat(p.Lon()), formatFloat(p.Lat()))
		}
		fmt.Fprintf(w, "\n%s\n", strconv.Quote(e.name))
	})

	return w.Flush()
}

// ReadGraph reads a network written by WriteGraph.
func ReadGraph(filename string) (*Graph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bz, err := bzip2.NewReader(f, nil)
	if err != nil {
		return nil, err
	}
	defer bz.Close()

	return Decode(bz)
}

func Decode(in io.Reader) (*Graph, error) {
	br := bufio.NewReaderSize(in, 1<<20)

	readLine := func() (string, error) {
		line, err := br.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			if errors.Is(err, io.EOF) {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	line, err := readLine()
	if err != nil {
		return nil, err
	}
	header := fields(line)
	if len(header) != 2 {
		return nil, fmt.Errorf("invalid header: %q", line)
	}
	numVertices, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, err
	}
	numEdges, err := strconv.Atoi(header[1])
	if err != nil {
		return nil, err
	}

	builder := NewGraphBuilder()

	for i := 0; i < numVertices; i++ {
		line, err := readLine()
		if err != nil {
			return nil, err
		}
		tokens := fields(line)
		if len(tokens) != 3 {
			return nil, fmt.Errorf("vertex %d: invalid line %q", i, line)
		}
		osmId, err := strconv.ParseInt(tokens[0], 10, 64)
		if err != nil {
			return nil, err
		}
		lat, err := strconv.ParseFloat(tokens[1], 64)
		if err != nil {
			return nil, err
		}
		lon, err := strconv.ParseFloat(tokens[2], 64)
		if err != nil {
			return nil, err
		}
		builder.AddVertex(osmId, lat, lon)
	}

	for i := 0; i < numEdges; i++ {
		line, err := readLine()
		if err != nil {
			return nil, err
		}
		spec, err := parseEdgeLine(line)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}

		nameLine, err := readLine()
		if err != nil {
			return nil, err
		}
		spec.Name, err = strconv.Unquote(nameLine)
		if err != nil {
			return nil, fmt.Errorf("edge %d: invalid name %q: %w", i, nameLine, err)
		}
		builder.AddEdge(spec)
	}

	return builder.Build()
}

func parseEdgeLine(line string) (EdgeSpec, error) {
	tokens := fields(line)
	if len(tokens) < 9 {
		return EdgeSpec{}, fmt.Errorf("invalid line %q", line)
	}
	var (
		spec EdgeSpec
		err  error
	)
	if spec.EdgeId, err = strconv.ParseInt(tokens[0], 10, 64); err != nil {
		return spec, err
	}
	if spec.Source, err = strconv.ParseInt(tokens[1], 10, 64); err != nil {
		return spec, err
	}
	if spec.Target, err = strconv.ParseInt(tokens[2], 10, 64); err != nil {
		return spec, err
	}
	if spec.LengthMeters, err = strconv.ParseFloat(tokens[3], 64); err != nil {
		return spec, err
	}
	if tokens[4] != noTravelTime {
		travelTime, err := strconv.ParseFloat(tokens[4], 64)
		if err != nil {
			return spec, err
		}
		spec.TravelTimeSeconds = &travelTime
	}
	hwType, err := strconv.ParseUint(tokens[5], 10, 8)
	if err != nil {
		return spec, err
	}
	spec.HighwayType = pkg.OsmHighwayType(hwType)
	if spec.Tunnel, err = strconv.ParseBool(tokens[6]); err != nil {
		return spec, err
	}
	if spec.Bridge, err = strconv.ParseBool(tokens[7]); err != nil {
		return spec, err
	}
	n, err := strconv.Atoi(tokens[8])
	if err != nil {
		return spec, err
	}
	if len(tokens) != 9+2*n {
		return spec, fmt.Errorf("expected %d geometry points: %q", n, line)
	}
	spec.Geometry = make(orb.LineString, n)
	for j := 0; j < n; j++ {
		lon, err := strconv.ParseFloat(tokens[9+2*j], 64)
		if err != nil {
			return spec, err
		}
		lat, err := strconv.ParseFloat(tokens[10+2*j], 64)
		if err != nil {
			return spec, err
		}
		spec.Geometry[j] = orb.Point{lon, lat}
	}
	return spec, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func fields(s string) []string {
	return strings.Fields(s)
}

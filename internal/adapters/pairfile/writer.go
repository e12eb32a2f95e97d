package pairfile

import (
	"bufio"
	"io"
	"strconv"

	"github.com/samirrijal/haversine/internal/core/domain"
)

// Encode writes pairs in the layout produced by the generator: one object per
// line, each followed by a comma, the last one included.
func Encode(w io.Writer, pairs []domain.CoordinatePair) error {
	bw := bufio.NewWriterSize(w, 64*1024)

	if _, err := bw.WriteString(`{"pairs": [`); err != nil {
		return err
	}

	line := make([]byte, 0, 128)
	for _, p := range pairs {
		line = append(line[:0], `{"x0":`...)
		line = appendFloat(line, p.X0)
		line = append(line, `, "y0":`...)
		line = appendFloat(line, p.Y0)
		line = append(line, `, "x1":`...)
		line = appendFloat(line, p.X1)
		line = append(line, `, "y1":`...)
		line = appendFloat(line, p.Y1)
		line = append(line, "},\n"...)
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}

	if _, err := bw.WriteString("]}"); err != nil {
		return err
	}
	return bw.Flush()
}

// FormatFloat renders v as the shortest decimal that parses back to v.
func FormatFloat(v float64) string {
	return string(appendFloat(nil, v))
}

func appendFloat(dst []byte, v float64) []byte {
	return strconv.AppendFloat(dst, v, 'f', -1, 64)
}

package layered

import (
	"github.com/gomlx/go-nertags/tagger/api"
)

// Columns implements api.Result, with the configured strategy and column count.
func (enc *Encoding) Columns(token int) []string {
	return enc.ColumnsFor(token, enc.config.Strategy, enc.config.Columns)
}

// ColumnsFor returns exactly n tag strings for the token, read from its levels following the strategy.
// Columns without a level are padded with "O". An unknown token yields n "O" and counts as a lookup miss.
func (enc *Encoding) ColumnsFor(token int, strategy api.Strategy, n int) []string {
	columns := make([]string, max(n, 0))
	for ii := range columns {
		columns[ii] = api.Outside
	}
	if token < 0 || token >= len(enc.tags) {
		enc.misses.Add(1)
		return columns
	}
	levels := enc.tags[token]
	for ii := range columns {
		if level := enc.selectLevel(strategy, ii, len(levels)); level >= 0 {
			columns[ii] = levels[level].String()
		}
	}
	return columns
}

// selectLevel returns the level read for the given column, or -1 if the column is padding.
func (enc *Encoding) selectLevel(strategy api.Strategy, column, numLevels int) int {
	level := -1
	switch strategy {
	case api.TopDown:
		level = column
	case api.BottomUp:
		level = numLevels - 1 - column
	case api.TopFirstBottomUp:
		if column == 0 {
			level = 0
		} else if level = numLevels - column; level == 0 {
			// Level 0 is already the first column.
			level = -1
		}
	case api.MaxCoverage:
		if column < len(enc.order) {
			level = enc.order[column]
		}
	}
	if level < 0 || level >= numLevels {
		return -1
	}
	return level
}

// Package progress renders a single-line console progress bar for feed reading loops.
//
// Each call overwrites the current line using a carriage return:
//
//	Progress: [##########----------------------------------------] 2/10 feeds
//
// Once count reaches total the bar is full and "Done..." ends the line.
//
// A Reporter is not safe for concurrent use unless its writer is; interleaved
// writes from several goroutines garble the line.
package progress

// Package pitch places note detections on staves.
//
// Labeling happens in two passes. Label assigns every note whose vertical
// center falls inside some staff's tolerance band the nearest mapped label.
// Notes outside every band are ledger candidates; AssociateLedger attaches
// each candidate to the closest staff and extrapolates its label from the
// staff's mean position gap.
//
// Scan order is deterministic: staves in declaration order, then positions
// by ascending y. On equal distances the first entry scanned wins.
package pitch

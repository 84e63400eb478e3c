// Package staff models the vertical coordinate system of a staff.
//
// A System is built from the y-coordinates of a staff's printed lines. Every
// line and every space between two lines becomes a position bound to a
// diatonic label; index 0 is the top line and indexes grow downward. Two
// padding positions extend the map by one step above the top line and one
// step below the bottom line, so notes sitting just outside the staff still
// have a position to snap to.
//
// For five lines at y = 100, 110, 120, 130, 140 the map is:
//
//	y:     95    100   105   110   115   120   125   130   135   140   145
//	label: sol_-1 fa_0 mi_0  re_0  do_0  si_0  la_0  sol_0 fa_1  mi_1  re_1
//
// Midpoints and padding positions are rounded half to even.
package staff

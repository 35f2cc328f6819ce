// Package viz renders neuron traces in the terminal.
//
// [PlotTrace] and [PlotTraces] draw static charts with asciigraph. [Live]
// is a bubbletea program that ticks a plugin instance at a fixed rate,
// showing the membrane trace, the x-z phase plane on a Braille [Canvas]
// and the tunable parameters.
//
// # Controls
//
//	space    pause / resume
//	r        restart the neuron
//	tab      select parameter
//	up/down  adjust the selected parameter
//	t        cycle theme
//	q        quit
package viz

// Package metrics provides sim.Metric implementations over a neuron's probe
// channel: spike and burst statistics, boundedness and input effort.
package metrics

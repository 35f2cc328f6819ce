package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/san-kum/hrsim/internal/analysis"
	"github.com/san-kum/hrsim/internal/export"
)

func bifurcation(cmd *cobra.Command, args []string) error {
	p, err := buildProbe(cmd)
	if err != nil {
		return err
	}

	s := analysis.Sweep{
		Key:       sweepKey,
		Min:       sweepMin,
		Max:       sweepMax,
		Steps:     intFlag(cmd, "steps"),
		Transient: intFlag(cmd, "transient"),
		Record:    intFlag(cmd, "record"),
		Workers:   workers,
	}

	fmt.Printf("bifurcation: %s in [%g, %g], %d points\n\n", s.Key, s.Min, s.Max, s.Steps)
	points, err := analysis.Bifurcation(cmd.Context(), p, s)
	if err != nil {
		return err
	}

	fmt.Println(analysis.BifurcationToASCII(points, 80, 24))
	fmt.Printf("%-8g%*g\n", s.Min, 72, s.Max)
	return nil
}

func lyapunov(cmd *cobra.Command, args []string) error {
	p, err := buildProbe(cmd)
	if err != nil {
		return err
	}

	n := intFlag(cmd, "ticks")
	lambda, err := analysis.LyapunovExponent(p, n, floatFlag(cmd, "perturbation"))
	if err != nil {
		return err
	}

	fmt.Printf("largest lyapunov exponent: %.6f\n", lambda)
	switch {
	case lambda > 1e-3:
		fmt.Println("regime: chaotic")
	case lambda < -1e-3:
		fmt.Println("regime: converging (fixed point)")
	default:
		fmt.Println("regime: periodic")
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	p, err := buildProbe(cmd)
	if err != nil {
		return err
	}

	xv, yv := stringFlag(cmd, "x-var"), stringFlag(cmd, "y-var")
	portrait, err := analysis.PhasePortrait(p, xv, yv, intFlag(cmd, "transient"), intFlag(cmd, "ticks"))
	if err != nil {
		return err
	}

	fmt.Printf("phase space plot: %s vs %s (%d points)\n\n", yv, xv, len(portrait.Points))
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 20))

	if outFile != "" {
		doc := export.PortraitToSVG(portrait, 600, 600, "#3399ff")
		return writeOut(outFile, func(w io.Writer) error {
			return export.WriteSVG(w, doc)
		})
	}
	return nil
}

func poincare(cmd *cobra.Command, args []string) error {
	p, err := buildProbe(cmd)
	if err != nil {
		return err
	}

	xv, yv := stringFlag(cmd, "x-var"), stringFlag(cmd, "y-var")
	section, err := analysis.PoincareSection(p, crossVar, crossLevel, xv, yv, intFlag(cmd, "ticks"))
	if err != nil {
		return err
	}

	fmt.Printf("poincare section: %s crossing %g upward, %d points\n\n", crossVar, crossLevel, len(section.Points))
	if len(section.Points) == 0 {
		fmt.Println("no crossings")
		return nil
	}
	fmt.Println(analysis.PhasePortraitToASCII(section, 70, 20))
	return nil
}

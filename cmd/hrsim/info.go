package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/hrsim/internal/config"
	"github.com/san-kum/hrsim/internal/plugin"
)

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tVARIANT\tTICKS\tPERIOD\tNEURON")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%gs\t%s\n", name, p.Variant, p.Ticks, p.PeriodSeconds, formatSettings(p.Neuron))
	}
	return w.Flush()
}

func formatSettings(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, m[k])
	}
	return strings.Join(parts, ",")
}

func listVariants(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tOUTPUTS\tSELF-CORRECT")
	for _, v := range plugin.Variants() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", v.ID, v.Name, strings.Join(v.Outputs, ", "), v.SelfCorrect)
	}
	return w.Flush()
}

func describeVariant(cmd *cobra.Command, args []string) error {
	host := plugin.NewHost()
	defer host.Shutdown()

	handle, err := host.Create(args[0])
	if err != nil {
		return err
	}
	in, err := host.Get(handle)
	if err != nil {
		return err
	}

	desc := struct {
		Meta     plugin.Meta     `json:"meta"`
		Inputs   []string        `json:"inputs"`
		Outputs  []string        `json:"outputs"`
		Behavior plugin.Behavior `json:"behavior"`
		UISchema plugin.UISchema `json:"ui_schema"`
	}{in.Meta(), in.Inputs(), in.Outputs(), in.Behavior(), in.UISchema()}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(desc)
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/justyntemme/godistortion/pkg/effect"
	"github.com/justyntemme/godistortion/pkg/framework/param"
)

func runParams(args []string) error {
	fs := newFlagSet("params")
	var s settings
	s.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger, err := s.logger()
	if err != nil {
		return err
	}
	proc, err := s.newProcessor(logger)
	if err != nil {
		return err
	}
	return printParams(proc)
}

// printParams lists every parameter with its range, default, current value
// and MIDI controller.
func printParams(proc *effect.Processor) error {
	ccmap := effect.DefaultCCMap()
	controllers := make(map[uint32]string)
	for cc := 0; cc < 128; cc++ {
		if id, ok := ccmap.Lookup(uint8(cc)); ok {
			controllers[id] = fmt.Sprintf("CC %d", cc)
		}
	}
	if id, ok := ccmap.Program(); ok {
		controllers[id] += " / PC"
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tIDENTIFIER\tNAME\tRANGE\tDEFAULT\tVALUE\tMIDI")
	for _, p := range proc.Parameters().All() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Identifier, p.Name, paramRange(p),
			p.FormatValue(p.DefaultValue), p.FormatValue(p.GetValue()), controllers[p.ID])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, p := range proc.Parameters().All() {
		if p.Kind != param.KindChoice {
			continue
		}
		fmt.Printf("\n%s choices:\n", p.Identifier)
		for i, item := range p.Items {
			fmt.Printf("  %d  %s\n", i, item)
		}
	}
	return nil
}

func paramRange(p *param.Parameter) string {
	if p.Kind == param.KindChoice {
		return fmt.Sprintf("%d items", len(p.Items))
	}
	return fmt.Sprintf("%g..%g %s", p.Min, p.Max, p.Unit)
}

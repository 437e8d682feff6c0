package main

import (
	"errors"
	"fmt"

	"github.com/justyntemme/godistortion/pkg/framework/state"
)

func runPreset(args []string) error {
	if len(args) == 0 {
		return errors.New("need save, load or list")
	}
	action, args := args[0], args[1:]

	fs := newFlagSet("preset")
	var s settings
	s.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	logger, err := s.logger()
	if err != nil {
		return err
	}

	switch action {
	case "list":
		names, err := state.ListPresets()
		if err != nil {
			return err
		}
		dir, _ := state.PresetDir()
		if len(names) == 0 {
			logger.Info("no presets in %s", dir)
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil

	case "save", "load":
		if fs.NArg() != 1 {
			return fmt.Errorf("preset %s needs a name", action)
		}
		path, err := state.PresetPath(fs.Arg(0))
		if err != nil {
			return err
		}

		if action == "save" {
			proc, err := s.newProcessor(logger)
			if err != nil {
				return err
			}
			if err := proc.State().SaveFile(path); err != nil {
				return err
			}
			logger.Info("saved %s", path)
			return nil
		}

		s.preset = path
		proc, err := s.newProcessor(logger)
		if err != nil {
			return err
		}
		return printParams(proc)
	}
	return fmt.Errorf("unknown preset action %q", action)
}

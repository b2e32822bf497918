package console

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed cvars.yaml
var defaultCvarsYAML []byte

// CvarDefaults mirrors the non-exhaustive cvar list documented in spec §6.
// It's parsed the same way the teacher's config.Config loads its embedded
// defaults.yaml: a struct tagged for yaml.v3, unmarshalled once at init.
type CvarDefaults struct {
	Simulation struct {
		TickRate     float64 `yaml:"c_tickrate"`
		MaxFrameTime float64 `yaml:"c_maxframetime"`
	} `yaml:"simulation"`
	Threads struct {
		Count int `yaml:"s_threads"`
	} `yaml:"threads"`
	File struct {
		Portable bool `yaml:"file_portable"`
		Deflate  bool `yaml:"file_deflate"`
	} `yaml:"file"`
	Video struct {
		Width      int  `yaml:"vid_width"`
		Height     int  `yaml:"vid_height"`
		Fullscreen bool `yaml:"vid_fullscreen"`
		Resizable  bool `yaml:"vid_resizable"`
		Depth      int  `yaml:"vid_depth"`
	} `yaml:"video"`
	Console struct {
		CharSize int     `yaml:"con_charsize"`
		Fade     float64 `yaml:"con_fade"`
	} `yaml:"console"`
}

// LoadDefaultCvars parses the engine's embedded default cvar document.
func LoadDefaultCvars() (CvarDefaults, error) {
	var d CvarDefaults
	if err := yaml.Unmarshal(defaultCvarsYAML, &d); err != nil {
		return CvarDefaults{}, err
	}
	return d, nil
}

// RegisterDefaultCvars creates every cvar named in d in props.
// s_threads uses -1 to mean "auto" (§6).
func RegisterDefaultCvars(props *Properties, d CvarDefaults) error {
	type entry struct {
		name string
		err  error
	}
	errs := []entry{
		{"c_tickrate", props.CreateFloat("c_tickrate", d.Simulation.TickRate, false)},
		{"c_maxframetime", props.CreateFloat("c_maxframetime", d.Simulation.MaxFrameTime, false)},
		{"s_threads", props.CreateInt("s_threads", int64(d.Threads.Count), false)},
		{"file_portable", props.CreateBool("file_portable", d.File.Portable, false)},
		{"file_deflate", props.CreateBool("file_deflate", d.File.Deflate, false)},
		{"vid_width", props.CreateInt("vid_width", int64(d.Video.Width), false)},
		{"vid_height", props.CreateInt("vid_height", int64(d.Video.Height), false)},
		{"vid_fullscreen", props.CreateBool("vid_fullscreen", d.Video.Fullscreen, false)},
		{"vid_resizable", props.CreateBool("vid_resizable", d.Video.Resizable, false)},
		{"vid_depth", props.CreateInt("vid_depth", int64(d.Video.Depth), false)},
		{"con_charsize", props.CreateInt("con_charsize", int64(d.Console.CharSize), false)},
		{"con_fade", props.CreateFloat("con_fade", d.Console.Fade, false)},
	}
	for _, e := range errs {
		if e.err != nil {
			return e.err
		}
	}
	return nil
}

package schema

// LaunchConfig is the gamelaunch.yml document: the menus, the games, and
// the optional hooks the launcher runs around them.
type LaunchConfig struct {
	Menus    map[string]MenuDefinition `yaml:"menus"`
	Games    []GameDefinition          `yaml:"games"`
	Actions  map[string]string         `yaml:"actions"`
	Recorder RecorderConfig            `yaml:"recorder"`
	Editor   EditorConfig              `yaml:"editor"`
	Contact  string                    `yaml:"contact"`
}

// RecorderConfig locates the recording sink in the document.
type RecorderConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// EditorConfig selects the editor image for the edit action.
type EditorConfig struct {
	Image string `yaml:"image"`
	Mount string `yaml:"mount"`
}

// MenuDefinition is an ordered list of menu entries plus an optional
// static announcement block shown above them.
type MenuDefinition struct {
	Banner []string    `yaml:"banner"`
	Items  []MenuEntry `yaml:"items"`
}

// MenuEntry is either a concrete item, the literal spacer "blank", or a
// named generator such as "games" expanded at render time.
type MenuEntry struct {
	Generator string
	Item      MenuItem
}

// IsGenerator reports whether the entry is a spacer or generator name.
func (e MenuEntry) IsGenerator() bool {
	return e.Generator != ""
}

// MenuItem maps a key to a templated title and action.
type MenuItem struct {
	Key    string `yaml:"key"`
	Title  string `yaml:"title"`
	Action string `yaml:"action"`
}

// GeneratorBlank is the spacer placeholder.
const GeneratorBlank = "blank"

// GeneratorGames expands into one item per configured game.
const GeneratorGames = "games"

// GameDefinition describes one launchable game.
type GameDefinition struct {
	Index     int            `yaml:"-"`
	Name      string         `yaml:"name"`
	Image     string         `yaml:"image"`
	Volumes   []VolumeMount  `yaml:"volumes"`
	Arguments []string       `yaml:"arguments"`
	Commands  []string       `yaml:"commands"`
	Menu      MenuDefinition `yaml:"menu"`
}

// VolumeMount is a templated host:container mount pair.
type VolumeMount struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}
